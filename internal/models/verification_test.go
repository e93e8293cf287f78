package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVerification_Lifecycle(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("issue sets code and expiry", func(t *testing.T) {
		var v Verification
		v.Issue("1234", now, 5*time.Minute)

		assert.True(t, v.Pending())
		assert.Equal(t, "1234", *v.Code)
		assert.Equal(t, now.Add(5*time.Minute), *v.ExpiresAt)
		assert.False(t, v.Verified)
	})

	t.Run("check before expiry succeeds", func(t *testing.T) {
		var v Verification
		v.Issue("1234", now, 5*time.Minute)

		assert.NoError(t, v.Check("1234", now.Add(4*time.Minute)))
	})

	t.Run("expiry instant is not expired", func(t *testing.T) {
		var v Verification
		v.Issue("1234", now, 5*time.Minute)

		assert.NoError(t, v.Check("1234", now.Add(5*time.Minute)))
		assert.ErrorIs(t, v.Check("1234", now.Add(5*time.Minute+time.Nanosecond)), ErrCodeExpired)
	})

	t.Run("wrong code is a mismatch even when expired", func(t *testing.T) {
		var v Verification
		v.Issue("1234", now, 5*time.Minute)

		assert.ErrorIs(t, v.Check("9999", now.Add(time.Hour)), ErrCodeMismatch)
	})

	t.Run("no pending code never matches", func(t *testing.T) {
		var v Verification
		assert.ErrorIs(t, v.Check("", now), ErrCodeMismatch)
	})

	t.Run("complete clears code and verifies", func(t *testing.T) {
		var v Verification
		v.Issue("1234", now, 5*time.Minute)
		v.Complete()

		assert.False(t, v.Pending())
		assert.Nil(t, v.ExpiresAt)
		assert.True(t, v.Verified)
	})

	t.Run("consume keeps verified flag", func(t *testing.T) {
		v := Verification{Verified: true}
		v.Issue("4321", now, 5*time.Minute)
		v.Consume()

		assert.False(t, v.Pending())
		assert.True(t, v.Verified)
	})

	t.Run("reissue replaces the previous code", func(t *testing.T) {
		var v Verification
		v.Issue("1111", now, 5*time.Minute)
		v.Issue("2222", now.Add(time.Minute), 5*time.Minute)

		assert.ErrorIs(t, v.Check("1111", now.Add(time.Minute)), ErrCodeMismatch)
		assert.NoError(t, v.Check("2222", now.Add(time.Minute)))
		assert.Equal(t, now.Add(6*time.Minute), *v.ExpiresAt)
	})

	t.Run("reset drops code and verified flag", func(t *testing.T) {
		v := Verification{Verified: true}
		v.Issue("1234", now, 5*time.Minute)
		v.Reset()

		assert.False(t, v.Pending())
		assert.Nil(t, v.ExpiresAt)
		assert.False(t, v.Verified)
	})
}
