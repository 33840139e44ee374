package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

var adjectives = []string{
	"swift", "brave", "clever", "bold", "mighty",
	"silent", "wild", "golden", "bright", "storm",
}

var nouns = []string{
	"writer", "scribe", "author", "poet", "critic",
	"reader", "essayist", "editor", "narrator", "voice",
}

var usernameUnsafe = regexp.MustCompile(`[^a-z0-9_]+`)

// GenerateVerificationCode returns a random three digit code between 100 and 999
func GenerateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+100), nil
}

// SuggestUsername derives an alternative to a taken username, e.g. "sam_4821".
// An empty base gets a random "adjective_noun" stem.
func SuggestUsername(base string) (string, error) {
	base = usernameUnsafe.ReplaceAllString(strings.ToLower(strings.TrimSpace(base)), "")
	if base == "" {
		adjIdx, err := rand.Int(rand.Reader, big.NewInt(int64(len(adjectives))))
		if err != nil {
			return "", fmt.Errorf("failed to generate random adjective: %w", err)
		}
		nounIdx, err := rand.Int(rand.Reader, big.NewInt(int64(len(nouns))))
		if err != nil {
			return "", fmt.Errorf("failed to generate random noun: %w", err)
		}
		base = adjectives[adjIdx.Int64()] + "_" + nouns[nounIdx.Int64()]
	}

	suffix, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("failed to generate random suffix: %w", err)
	}
	return fmt.Sprintf("%s_%04d", base, suffix.Int64()), nil
}
