package verification

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/staHong/user-auth-account-system/internal/config"
	"github.com/staHong/user-auth-account-system/internal/domain"
	"github.com/staHong/user-auth-account-system/internal/infrastructure/smtp"
)

// VerifyResult is the tri-state outcome of a code check. A code that was
// never issued or already aged out is indistinguishable from the client's
// point of view, so both report ResultExpired.
type VerifyResult string

const (
	ResultSuccess VerifyResult = "SUCCESS"
	ResultInvalid VerifyResult = "INVALID_CODE"
	ResultExpired VerifyResult = "EXPIRED"
)

type Service interface {
	// SendCode issues a fresh code to any address. Used during registration,
	// where the address must not belong to an account yet.
	SendCode(ctx context.Context, email string) error
	// CheckAndSendCode issues a code only when the address belongs to an
	// active account. Used for credential recovery.
	CheckAndSendCode(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code string) (VerifyResult, error)
}

type codeCache interface {
	Set(ctx context.Context, email, code string, ttl time.Duration) error
	Get(ctx context.Context, email string) (string, error)
	Delete(ctx context.Context, email string) error
}

type accountResolver interface {
	EmailExists(ctx context.Context, email string) (bool, error)
}

type service struct {
	cache    codeCache
	resolver accountResolver
	mailer   smtp.Mailer
	ttl      time.Duration
	rangeMin int
	rangeMax int
	subject  string
}

type ServiceDeps struct {
	CodeCache codeCache
	Resolver  accountResolver
	Mailer    smtp.Mailer
	Config    *config.Config
}

func NewService(deps ServiceDeps) Service {
	return &service{
		cache:    deps.CodeCache,
		resolver: deps.Resolver,
		mailer:   deps.Mailer,
		ttl:      deps.Config.VerificationTTL,
		rangeMin: deps.Config.VerificationRangeMin,
		rangeMax: deps.Config.VerificationRangeMax,
		subject:  deps.Config.VerificationSubject,
	}
}

func (s *service) SendCode(ctx context.Context, email string) error {
	code, err := s.generateCode()
	if err != nil {
		return err
	}
	// A resend overwrites the previous code and restarts the TTL.
	if err := s.cache.Set(ctx, email, code, s.ttl); err != nil {
		return err
	}
	if err := s.mailer.SendEmail(email, s.subject, verificationBody(code, s.ttl)); err != nil {
		return fmt.Errorf("send verification email: %v: %w", err, domain.ErrDeliveryFailure)
	}
	return nil
}

func (s *service) CheckAndSendCode(ctx context.Context, email string) error {
	exists, err := s.resolver.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("no account with that email: %w", domain.ErrNotFound)
	}
	return s.SendCode(ctx, email)
}

func (s *service) VerifyCode(ctx context.Context, email, code string) (VerifyResult, error) {
	stored, err := s.cache.Get(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return ResultExpired, nil
	}
	if err != nil {
		return "", err
	}
	if stored != code {
		return ResultInvalid, nil
	}
	// Consume on success only; a failed attempt leaves the code usable.
	if err := s.cache.Delete(ctx, email); err != nil {
		slog.Warn("failed to consume verification code", "email", email, "err", err)
	}
	return ResultSuccess, nil
}

func (s *service) generateCode() (string, error) {
	span := int64(s.rangeMax - s.rangeMin + 1)
	n, err := rand.Int(rand.Reader, big.NewInt(span))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", int64(s.rangeMin)+n.Int64()), nil
}

func verificationBody(code string, ttl time.Duration) string {
	return fmt.Sprintf(
		"<p>Your verification code is <strong>%s</strong>.</p><p>It expires in %d minutes.</p>",
		code, int(ttl.Minutes()))
}
