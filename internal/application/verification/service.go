package verification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phone-otp-api/internal/domain"
	"github.com/phone-otp-api/internal/infrastructure/sns"
	"github.com/phone-otp-api/internal/pkg/phone"
)

// Store is the OTP record store contract. Both the DynamoDB and the in-memory
// backends implement it; all per-key atomicity lives behind this interface.
type Store interface {
	// Create returns a fresh code for the key or domain.ErrRateLimited.
	Create(ctx context.Context, phoneKey string) (string, error)
	// Verify consumes an attempt. (true, nil) on match, (false, nil) on a
	// wrong code with attempts remaining, domain.ErrNotFound or
	// domain.ErrAttemptsExceeded otherwise.
	Verify(ctx context.Context, phoneKey, code string) (bool, error)
	Delete(ctx context.Context, phoneKey string) error
}

// TokenIssuer mints the bearer credential handed out after a successful
// verification.
type TokenIssuer interface {
	Sign(phoneKey string) (string, error)
}

// RequestCodeResult is returned by RequestCode. DebugCode is set only when
// the debug echo is enabled; it must never be populated in production.
type RequestCodeResult struct {
	PhoneNumber string
	DebugCode   string
}

// ConfirmCodeResult is returned by ConfirmCode on success.
type ConfirmCodeResult struct {
	PhoneNumber string
	Token       string
}

type Service interface {
	RequestCode(ctx context.Context, rawPhone string) (*RequestCodeResult, error)
	ConfirmCode(ctx context.Context, rawPhone, code string) (*ConfirmCodeResult, error)
}

type service struct {
	store         Store
	sender        sns.SMSSender
	tokens        TokenIssuer
	defaultPrefix string
	exposeCode    bool
}

// NewService wires the verification flow. exposeCode gates the debug code
// echo; callers must only pass true when the sender is the log stand-in.
func NewService(store Store, sender sns.SMSSender, tokens TokenIssuer, defaultPrefix string, exposeCode bool) Service {
	return &service{
		store:         store,
		sender:        sender,
		tokens:        tokens,
		defaultPrefix: defaultPrefix,
		exposeCode:    exposeCode,
	}
}

func (s *service) RequestCode(ctx context.Context, rawPhone string) (*RequestCodeResult, error) {
	if !phone.Validate(rawPhone) {
		return nil, fmt.Errorf("phone number must have 10 to 15 digits: %w", domain.ErrInvalidPhone)
	}
	key := phone.Normalize(rawPhone, s.defaultPrefix)

	code, err := s.store.Create(ctx, key)
	if err != nil {
		return nil, err
	}

	// The record is already durably stored; a delivery failure leaves it
	// valid and retriable under the normal cooldown/attempt rules.
	if err := s.sender.Send(ctx, key, "Your verification code: "+code); err != nil {
		slog.Error("sms delivery failed", "err", err)
		return nil, domain.ErrDeliveryFailed
	}

	res := &RequestCodeResult{PhoneNumber: key}
	if s.exposeCode {
		res.DebugCode = code
	}
	return res, nil
}

func (s *service) ConfirmCode(ctx context.Context, rawPhone, code string) (*ConfirmCodeResult, error) {
	// No re-validation here: malformed input normalizes to a key that has no
	// record and surfaces as not-found.
	key := phone.Normalize(rawPhone, s.defaultPrefix)

	ok, err := s.store.Verify(ctx, key, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidCode
	}
	if s.tokens == nil {
		return nil, errors.New("token issuer not configured")
	}
	token, err := s.tokens.Sign(key)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	return &ConfirmCodeResult{PhoneNumber: key, Token: token}, nil
}
