package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRotation is returned for an unknown rotation policy.
var ErrInvalidRotation = errors.New("invalid rotation policy: must be per-attempt or per-run")

// Rotation decides how often the outbound proxy and identity change.
type Rotation string

const (
	// RotationPerAttempt draws a new proxy and identity for every fetch attempt,
	// including retries of the same page.
	RotationPerAttempt Rotation = "per-attempt"

	// RotationPerRun draws one proxy and one identity and keeps them for the
	// whole crawl run.
	RotationPerRun Rotation = "per-run"
)

// String returns the policy name.
func (r Rotation) String() string {
	return string(r)
}

// IsValid reports whether r is a known policy.
func (r Rotation) IsValid() bool {
	return r == RotationPerAttempt || r == RotationPerRun
}

// ParseRotation normalizes s into a Rotation. An empty string means
// RotationPerAttempt.
func ParseRotation(s string) (Rotation, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RotationPerAttempt, nil
	}
	r := Rotation(s)
	if !r.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRotation, s)
	}
	return r, nil
}
