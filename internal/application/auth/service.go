package auth

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/storefront-mcp/internal/domain"
	"github.com/storefront-mcp/internal/infrastructure/shopify"
	pkgtoken "github.com/storefront-mcp/internal/pkg/token"
)

// CredentialStore holds at most one pending OTP per email. Put overwrites.
type CredentialStore interface {
	Put(ctx context.Context, p *domain.PendingOTP) error
	Get(ctx context.Context, email string) (*domain.PendingOTP, error)
	Delete(ctx context.Context, email string) error
}

// SessionStore maps opaque tokens to verified sessions.
type SessionStore interface {
	Put(ctx context.Context, s *domain.Session) error
	Get(ctx context.Context, token string) (*domain.Session, error)
	Delete(ctx context.Context, token string) error
}

// Mailer dispatches the verification email.
type Mailer interface {
	SendEmail(from, to, subject, htmlBody string) error
}

// CustomerDirectory looks up customer records in the upstream commerce API.
type CustomerDirectory interface {
	FindByEmail(ctx context.Context, email string, limit int) ([]domain.Customer, error)
}

// OrderDirectory lists a customer's orders in the upstream commerce API.
type OrderDirectory interface {
	ListOrdersByCustomer(ctx context.Context, customerID string, limit int) ([]domain.Order, error)
}

type RequestOTPInput struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOTPInput struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

// VerifyOTPResult is the two-phase outcome of a verification: Token is the
// definite phase-one result; FirstName/Orders/Message are the best-effort
// enrichment attachment and may be absent or degraded without affecting
// the validity of the token.
type VerifyOTPResult struct {
	Token     string         `json:"token"`
	FirstName string         `json:"first_name,omitempty"`
	Orders    []domain.Order `json:"orders,omitempty"`
	Message   string         `json:"message,omitempty"`
}

type Service interface {
	RequestOTP(ctx context.Context, req RequestOTPInput) (string, error)
	VerifyOTP(ctx context.Context, req VerifyOTPInput) (*VerifyOTPResult, error)
	Authorize(ctx context.Context, token string) (*domain.Session, error)
}

// ServiceDeps wires the stores and external collaborators into the service.
type ServiceDeps struct {
	Credentials      CredentialStore
	Sessions         SessionStore
	Mailer           Mailer
	Customers        CustomerDirectory
	Orders           OrderDirectory
	FromAddress      string
	OTPTTL           time.Duration
	SessionFreshness time.Duration
}

type service struct {
	credentials      CredentialStore
	sessions         SessionStore
	mailer           Mailer
	customers        CustomerDirectory
	orders           OrderDirectory
	fromAddress      string
	otpTTL           time.Duration
	sessionFreshness time.Duration
}

func NewService(deps ServiceDeps) Service {
	return &service{
		credentials:      deps.Credentials,
		sessions:         deps.Sessions,
		mailer:           deps.Mailer,
		customers:        deps.Customers,
		orders:           deps.Orders,
		fromAddress:      deps.FromAddress,
		otpTTL:           deps.OTPTTL,
		sessionFreshness: deps.SessionFreshness,
	}
}

const (
	otpSubject = "Your verification code"

	// enrichmentOrderLimit bounds the recent-orders payload attached to a
	// successful verification.
	enrichmentOrderLimit = 10
)

// RequestOTP generates a 6-digit code, stores it with a fixed TTL and mails
// it to the address. Re-requesting replaces any previous pending code for
// the same email.
func (s *service) RequestOTP(ctx context.Context, req RequestOTPInput) (string, error) {
	code := newCode()

	p := &domain.PendingOTP{
		Email:     req.Email,
		Code:      code,
		ExpiresAt: time.Now().Add(s.otpTTL).Unix(),
	}
	if err := s.credentials.Put(ctx, p); err != nil {
		return "", fmt.Errorf("store pending code: %w", err)
	}

	body := fmt.Sprintf(
		"<p>Your verification code is <strong>%s</strong>.</p><p>It expires in %d minutes.</p>",
		code, int(s.otpTTL.Minutes()),
	)
	if err := s.mailer.SendEmail(s.fromAddress, req.Email, otpSubject, body); err != nil {
		// The stored code stays valid so the caller can retry the dispatch.
		return "", fmt.Errorf("%w: %v", domain.ErrDispatchFailed, err)
	}

	slog.Info("verification code sent", "email", req.Email)
	return fmt.Sprintf("verification code sent to %s", req.Email), nil
}

// VerifyOTP checks the submitted code and, on success, consumes it and mints
// a session token. A recent-orders payload is attached best-effort; an
// enrichment failure never invalidates the verification itself.
func (s *service) VerifyOTP(ctx context.Context, req VerifyOTPInput) (*VerifyOTPResult, error) {
	p, err := s.credentials.Get(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("verification failed: %w", domain.ErrInvalidOrExpired)
	}
	if p.Code != req.Code {
		return nil, fmt.Errorf("verification failed: %w", domain.ErrInvalidOrExpired)
	}
	if p.ExpiresAt < time.Now().Unix() {
		return nil, fmt.Errorf("verification failed: %w", domain.ErrInvalidOrExpired)
	}

	// Codes are single-use.
	if err := s.credentials.Delete(ctx, req.Email); err != nil {
		slog.Warn("failed to delete consumed code", "email", req.Email, "err", err)
	}

	tok, err := pkgtoken.NewSessionToken()
	if err != nil {
		return nil, err
	}
	sess := &domain.Session{
		Token:     tok,
		Email:     req.Email,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessions.Put(ctx, sess); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	result := &VerifyOTPResult{Token: tok}
	s.enrich(ctx, req.Email, result)
	return result, nil
}

// enrich attaches the verified customer's name and recent orders to the
// result. Any failure only degrades the message field.
func (s *service) enrich(ctx context.Context, email string, result *VerifyOTPResult) {
	customers, err := s.customers.FindByEmail(ctx, email, 1)
	if err != nil {
		slog.Warn("customer lookup failed after verification", "email", email, "err", err)
		result.Message = fmt.Sprintf("verified, but order lookup is unavailable: %v", err)
		return
	}
	if len(customers) == 0 {
		result.Message = "verified; no customer record found for this email"
		return
	}

	customer := customers[0]
	result.FirstName = customer.FirstName

	orders, err := s.orders.ListOrdersByCustomer(ctx, shopify.LegacyID(customer.ID), enrichmentOrderLimit)
	if err != nil {
		slog.Warn("order lookup failed after verification", "email", email, "err", err)
		result.Message = fmt.Sprintf("verified, but order lookup is unavailable: %v", err)
		return
	}
	result.Orders = orders
}

// Authorize validates a bearer token's presence, existence and freshness.
// Stale sessions are evicted as a side effect of rejection; the two failure
// causes are surfaced identically.
func (s *service) Authorize(ctx context.Context, token string) (*domain.Session, error) {
	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("invalid or expired session token: %w", domain.ErrUnauthorized)
	}
	if time.Since(sess.CreatedAt) > s.sessionFreshness {
		if err := s.sessions.Delete(ctx, token); err != nil {
			slog.Warn("failed to evict expired session", "err", err)
		}
		return nil, fmt.Errorf("invalid or expired session token: %w", domain.ErrUnauthorized)
	}
	return sess, nil
}

// newCode returns a uniformly random 6-digit decimal code. The range starts
// at 100000 so a leading zero is never produced.
func newCode() string {
	return fmt.Sprintf("%06d", 100000+rand.IntN(900000))
}
