package services

import (
	"context"
	"fmt"
	"time"

	"github.com/swap24/backend/internal/config"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// OTPSender delivers a one-time code to a channel address (email or phone number).
type OTPSender interface {
	SendOTP(ctx context.Context, to, code string) error
}

type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailSender delivers codes over SMTP. Port 465 uses implicit TLS.
type EmailSender struct {
	dialer   mailDialer
	from     string
	fromName string
	ttl      time.Duration
}

func NewEmailSender(cfg config.MailConfig, ttl time.Duration) *EmailSender {
	return &EmailSender{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:     cfg.Username,
		fromName: cfg.FromName,
		ttl:      ttl,
	}
}

func (s *EmailSender) SendOTP(ctx context.Context, to, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your OTP Code")
	m.SetBody("text/plain", fmt.Sprintf("Your OTP is: %s. It will expire in %d minutes.", code, int(s.ttl.Minutes())))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send otp email: %w", err)
	}
	return nil
}

// PhoneLogSender only logs the code. There is no SMS provider behind it.
type PhoneLogSender struct {
	log *zap.Logger
}

func NewPhoneLogSender(log *zap.Logger) *PhoneLogSender {
	return &PhoneLogSender{log: log}
}

func (s *PhoneLogSender) SendOTP(_ context.Context, to, code string) error {
	s.log.Info("phone otp generated", zap.String("phone", to), zap.String("otp", code))
	return nil
}
