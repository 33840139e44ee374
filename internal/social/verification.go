package social

import "time"

// VerificationStatus is the lifecycle state of a platform verification
type VerificationStatus string

const (
	StatusUnverified VerificationStatus = "unverified"
	StatusPending    VerificationStatus = "pending"
	StatusVerified   VerificationStatus = "verified"
	StatusFailed     VerificationStatus = "failed"
)

// PlatformStatus is the verification state of one platform for one user
type PlatformStatus struct {
	Platform      Platform           `json:"platform"`
	Status        VerificationStatus `json:"status"`
	URL           string             `json:"url,omitempty"`
	Code          string             `json:"code,omitempty"`
	CodeExpiresAt *time.Time         `json:"code_expires_at,omitempty"`
	SubmittedAt   *time.Time         `json:"submitted_at,omitempty"`
	UpdatedAt     *time.Time         `json:"updated_at,omitempty"`
}
