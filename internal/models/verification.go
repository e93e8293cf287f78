package models

import (
	"errors"
	"time"
)

var (
	ErrCodeMismatch = errors.New("code mismatch")
	ErrCodeExpired  = errors.New("code expired")
)

// Verification is the pending-or-done state of proving possession of one
// channel (email or phone). Code and ExpiresAt are nil whenever nothing is pending.
type Verification struct {
	Code      *string
	ExpiresAt *time.Time
	Verified  bool
}

// Issue replaces any pending code with a fresh one that expires ttl after now.
func (v *Verification) Issue(code string, now time.Time, ttl time.Duration) {
	expires := now.Add(ttl)
	v.Code = &code
	v.ExpiresAt = &expires
}

// Check reports whether code matches the pending one at instant now.
// A code whose expiry equals now is still valid.
func (v Verification) Check(code string, now time.Time) error {
	if v.Code == nil || *v.Code != code {
		return ErrCodeMismatch
	}
	if v.ExpiresAt != nil && v.ExpiresAt.Before(now) {
		return ErrCodeExpired
	}
	return nil
}

// Complete clears the pending code and marks the channel verified. There is no way back.
func (v *Verification) Complete() {
	v.Consume()
	v.Verified = true
}

// Consume clears the pending code without touching Verified (used by signin challenges).
func (v *Verification) Consume() {
	v.Code = nil
	v.ExpiresAt = nil
}

// Reset forgets everything about the channel. Used when the address itself changes.
func (v *Verification) Reset() {
	*v = Verification{}
}

func (v Verification) Pending() bool {
	return v.Code != nil
}
