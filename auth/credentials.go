// Package auth implements the credential handling for survey
// configurations: tiered password policy and hashing, plus the
// deterministic lookup key kept for records created under the old
// hashed-identifier scheme.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Tier is the trust level a credential protects.
type Tier string

const (
	TierRespondent Tier = "respondent"
	TierAdmin      Tier = "admin"
)

// Bcrypt work factors per tier. Admin hashes must always cost more to
// brute-force than respondent hashes.
const (
	respondentCost = 10
	adminCost      = 14
)

// ErrWeakPassword marks any password-policy failure. The wrapped
// message is safe to show to the caller.
var ErrWeakPassword = errors.New("weak password")

var customIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{5,}$`)

// Cost returns the bcrypt work factor for the tier.
func (t Tier) Cost() int {
	if t == TierAdmin {
		return adminCost
	}
	return respondentCost
}

// ValidatePassword enforces the strength policy. Respondent passwords
// only need length >= 6. Admin passwords need length >= 12 plus an
// uppercase letter, a lowercase letter, a digit and a special
// character.
func ValidatePassword(password string, tier Tier) error {
	if tier != TierAdmin {
		if len(password) < 6 {
			return fmt.Errorf("%w: password must be at least 6 characters", ErrWeakPassword)
		}
		return nil
	}

	if len(password) < 12 {
		return fmt.Errorf("%w: admin password must be at least 12 characters", ErrWeakPassword)
	}
	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	switch {
	case !hasUpper:
		return fmt.Errorf("%w: admin password must contain an uppercase letter", ErrWeakPassword)
	case !hasLower:
		return fmt.Errorf("%w: admin password must contain a lowercase letter", ErrWeakPassword)
	case !hasDigit:
		return fmt.Errorf("%w: admin password must contain a digit", ErrWeakPassword)
	case !hasSpecial:
		return fmt.Errorf("%w: admin password must contain a special character", ErrWeakPassword)
	}
	return nil
}

// HashPassword produces a salted bcrypt hash at the tier's work
// factor. The result is opaque; store it verbatim and never log it.
func HashPassword(password string, tier Tier) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), tier.Cost())
	return string(b), err
}

// VerifyPassword reports whether password matches the stored hash.
// The hash is self-describing, so the tier's cost is implied by it; a
// malformed hash verifies as false, never as an error.
func VerifyPassword(password, hash string, _ Tier) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// LegacyLookupKey derives the deterministic HMAC-SHA256 key old
// records stored in place of their slug. One-way by construction:
// look records up by the original slug, never try to invert this.
func LegacyLookupKey(customID, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(customID))
	return hex.EncodeToString(h.Sum(nil))
}

// IsValidCustomID reports whether s is a usable public slug: at least
// five characters, alphanumerics, hyphens and underscores only.
func IsValidCustomID(s string) bool {
	return customIDPattern.MatchString(s)
}

// SuggestCustomID builds a unique slug candidate from free text by
// stripping everything but lowercase alphanumerics and appending a
// base-36 timestamp.
func SuggestCustomID(input string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(input) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String() + "-" + strconv.FormatInt(time.Now().UnixMilli(), 36)
}
