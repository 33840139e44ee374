// Package social describes the social platforms a user can link and verify.
package social

import (
	"net/url"
	"regexp"
	"strings"
)

// Platform identifies a social network
type Platform string

const (
	LinkedIn  Platform = "linkedin"
	Twitter   Platform = "twitter"
	Facebook  Platform = "facebook"
	Instagram Platform = "instagram"
	YouTube   Platform = "youtube"
	TikTok    Platform = "tiktok"
)

// All lists every supported platform in display order
var All = []Platform{LinkedIn, Twitter, Facebook, Instagram, YouTube, TikTok}

var displayNames = map[Platform]string{
	LinkedIn:  "LinkedIn",
	Twitter:   "X",
	Facebook:  "Facebook",
	Instagram: "Instagram",
	YouTube:   "YouTube",
	TikTok:    "TikTok",
}

var profileURLPatterns = map[Platform]*regexp.Regexp{
	Twitter:   regexp.MustCompile(`^https?://(www\.)?(twitter|x)\.com/[a-zA-Z0-9_]+/?$`),
	LinkedIn:  regexp.MustCompile(`^https?://(www\.)?linkedin\.com/(in|pub|company)/[a-zA-Z0-9_-]+/?$`),
	Facebook:  regexp.MustCompile(`^https?://(www\.)?facebook\.com/[a-zA-Z0-9._-]+/?$`),
	Instagram: regexp.MustCompile(`^https?://(www\.)?instagram\.com/[a-zA-Z0-9._]+/?$`),
	YouTube:   regexp.MustCompile(`^https?://(www\.)?youtube\.com/(user/|channel/|c/)?[a-zA-Z0-9_-]+/?$`),
	TikTok:    regexp.MustCompile(`^https?://(www\.)?tiktok\.com/@?[a-zA-Z0-9._-]+/?$`),
}

var hosts = map[Platform][]string{
	LinkedIn:  {"linkedin.com"},
	Twitter:   {"twitter.com", "x.com"},
	Facebook:  {"facebook.com"},
	Instagram: {"instagram.com"},
	YouTube:   {"youtube.com", "youtu.be"},
	TikTok:    {"tiktok.com"},
}

// Parse returns the platform for an id such as "linkedin"
func Parse(s string) (Platform, bool) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := displayNames[p]; !ok {
		return "", false
	}
	return p, true
}

func (p Platform) Valid() bool {
	_, ok := displayNames[p]
	return ok
}

// DisplayName returns the human readable name of the platform
func (p Platform) DisplayName() string {
	return displayNames[p]
}

// ValidProfileURL reports whether raw is a profile URL on platform p
func ValidProfileURL(p Platform, raw string) bool {
	if raw == "" {
		return false
	}
	pattern, ok := profileURLPatterns[p]
	if !ok {
		return false
	}
	return pattern.MatchString(raw)
}

// OnPlatform reports whether raw is an http(s) URL hosted by platform p
func OnPlatform(p Platform, raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	for _, h := range hosts[p] {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// Set is an ordered set of platforms; order follows insertion
type Set []Platform

// Contains reports whether p is in the set
func (s Set) Contains(p Platform) bool {
	for _, existing := range s {
		if existing == p {
			return true
		}
	}
	return false
}

// Toggle adds p when absent and removes it when present
func (s Set) Toggle(p Platform) Set {
	if s.Contains(p) {
		out := make(Set, 0, len(s))
		for _, existing := range s {
			if existing != p {
				out = append(out, existing)
			}
		}
		return out
	}
	return append(s, p)
}

// Strings returns the platform ids
func (s Set) Strings() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = string(p)
	}
	return out
}

// ParseSet parses platform ids, dropping unknown and repeated ids
func ParseSet(ids []string) Set {
	var out Set
	for _, id := range ids {
		p, ok := Parse(id)
		if !ok || out.Contains(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}
