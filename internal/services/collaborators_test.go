package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/gomail.v2"
)

type recordingDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func TestEmailSender_SendOTP(t *testing.T) {
	t.Run("builds the otp message", func(t *testing.T) {
		d := &recordingDialer{}
		s := &EmailSender{dialer: d, from: "noreply@swap24.app", fromName: "Swap24", ttl: 5 * time.Minute}

		require.NoError(t, s.SendOTP(context.Background(), "ada@example.com", "4821"))

		require.Len(t, d.sent, 1)
		assert.Equal(t, []string{"ada@example.com"}, d.sent[0].GetHeader("To"))
		assert.Equal(t, []string{"Your OTP Code"}, d.sent[0].GetHeader("Subject"))
	})

	t.Run("delivery failure is returned", func(t *testing.T) {
		s := &EmailSender{dialer: &recordingDialer{err: errors.New("535 auth failed")}, ttl: 5 * time.Minute}

		err := s.SendOTP(context.Background(), "ada@example.com", "4821")
		assert.ErrorContains(t, err, "535 auth failed")
	})
}

func TestPhoneLogSender(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := NewPhoneLogSender(zap.New(core))

	require.NoError(t, s.SendOTP(context.Background(), "+2348012345678", "4821"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "+2348012345678", entries[0].ContextMap()["phone"])
	assert.Equal(t, "4821", entries[0].ContextMap()["otp"])
}

func TestBcryptHasher(t *testing.T) {
	h := &BcryptHasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash("password123")
	require.NoError(t, err)

	assert.True(t, h.Compare("password123", hash))
	assert.False(t, h.Compare("password124", hash))
	assert.False(t, h.Compare("password123", "not-a-hash"))
}

func TestJWTIssuer(t *testing.T) {
	issuer := NewJWTIssuer("test-secret", time.Hour)

	token, err := issuer.Issue("user-1", "ada@example.com")
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewJWTIssuer("other-secret", time.Hour).Parse(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewJWTIssuer("test-secret", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

		_, err := later.Parse(token)
		assert.Error(t, err)
	})
}

func TestResendLimiter(t *testing.T) {
	ctx := context.Background()

	t.Run("nil client allows", func(t *testing.T) {
		ok, err := NewResendLimiter(nil, 1, time.Hour).Allow(ctx, "email", "ada@example.com")
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("redis error fails open", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		mock.ExpectGet("otp:ratelimit:phone:ada@example.com").SetErr(errors.New("connection refused"))

		ok, err := NewResendLimiter(client, 5, time.Hour).Allow(ctx, "phone", "ada@example.com")
		assert.Error(t, err)
		assert.True(t, ok)
	})
}

func TestTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	b := NewTokenBlacklist(client, time.Hour)

	mock.ExpectExists("blacklist:tok").SetVal(1)
	revoked, err := b.IsRevoked(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, revoked)

	mock.ExpectExists("blacklist:other").SetVal(0)
	revoked, err = b.IsRevoked(ctx, "other")
	require.NoError(t, err)
	assert.False(t, revoked)

	var nilBlacklist *TokenBlacklist
	revoked, err = nilBlacklist.IsRevoked(ctx, "tok")
	assert.NoError(t, err)
	assert.False(t, revoked)

	assert.NoError(t, mock.ExpectationsWereMet())
}
