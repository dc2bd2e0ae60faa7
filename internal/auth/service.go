package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/dentalcenter/practice-api/pkg/logging"
)

var authTracer = otel.Tracer("dentalcenter.internal.auth")

// ResetMailer delivers password reset links. Optional; when nil the forgot
// password flow still reports success for known accounts.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, toEmail, toName, resetLink string) error
}

// Config holds the knobs for the session service.
type Config struct {
	JWTSecret string
	TokenTTL  time.Duration
	// Delay is applied to login, register and password flows regardless of
	// outcome, mirroring the demo latency of the system this replaces.
	Delay time.Duration
	// ResetBaseURL is the page the password reset link points at.
	ResetBaseURL string
}

// Service owns authentication and session state. It is constructed once at
// startup and handed to whatever needs it; there is no ambient global.
type Service struct {
	repo     UserRepository
	sessions SessionStore
	mailer   ResetMailer
	cfg      Config
	logger   *logging.Logger
}

// NewService constructs the session service.
func NewService(repo UserRepository, sessions SessionStore, mailer ResetMailer, cfg Config, logger *logging.Logger) *Service {
	if repo == nil {
		panic("auth: user repository required")
	}
	if sessions == nil {
		panic("auth: session store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return &Service{repo: repo, sessions: sessions, mailer: mailer, cfg: cfg, logger: logger}
}

// wait simulates upstream latency without ignoring cancellation.
func (s *Service) wait(ctx context.Context) error {
	if s.cfg.Delay <= 0 {
		return nil
	}
	t := time.NewTimer(s.cfg.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Login checks the (email, password) pair against the credential list and
// establishes a session on success. The comparison is exact and the stored
// demo passwords are plaintext; this is a mock credential flow, not real
// authentication.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	ctx, span := authTracer.Start(ctx, "auth.login")
	defer span.End()

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	cred, err := s.repo.FindByEmail(ctx, email)
	if err != nil || cred.Password != password {
		s.logger.Info("login rejected", "email", email)
		return nil, ErrInvalidCredentials
	}

	session, err := s.establish(ctx, cred.Profile)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("dental.user_id", cred.ID))
	s.logger.Info("login succeeded", "user_id", cred.ID, "role", cred.Role)
	return session, nil
}

// Register creates a new account and signs it in immediately. The email
// uniqueness check is a case-sensitive exact match against the credential
// list.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	ctx, span := authTracer.Start(ctx, "auth.register")
	defer span.End()

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" ||
		req.Email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	}

	role := req.Role
	if role != RoleAdmin {
		role = RolePatient
	}

	cred := &Credential{
		Profile: Profile{
			ID:        uuid.NewString(),
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Role:      role,
		},
		Password: req.Password,
	}
	if err := s.repo.Insert(ctx, cred); err != nil {
		span.RecordError(err)
		return nil, err
	}

	session, err := s.establish(ctx, cred.Profile)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.logger.Info("user registered", "user_id", cred.ID, "role", cred.Role)
	return session, nil
}

// Logout tears down the session behind the token. Unknown or expired tokens
// are not an error; logout always leaves the caller signed out.
func (s *Service) Logout(ctx context.Context, token string) {
	sessionID, err := parseSessionToken(s.cfg.JWTSecret, token)
	if err != nil {
		return
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		s.logger.Warn("logout: delete session failed", "error", err)
	}
}

// Resolve maps a bearer token to the stored session profile.
func (s *Service) Resolve(ctx context.Context, token string) (Profile, error) {
	sessionID, err := parseSessionToken(s.cfg.JWTSecret, token)
	if err != nil {
		return Profile{}, err
	}
	return s.sessions.Get(ctx, sessionID)
}

// ForgotPassword emails a reset link when the account exists. It fails only
// for unknown emails.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	ctx, span := authTracer.Start(ctx, "auth.forgot_password")
	defer span.End()

	if err := s.wait(ctx); err != nil {
		return err
	}

	cred, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return ErrUnknownEmail
	}

	if s.mailer == nil {
		s.logger.Info("password reset requested, no mailer configured", "user_id", cred.ID)
		return nil
	}

	link := s.cfg.ResetBaseURL + "?token=" + uuid.NewString()
	if err := s.mailer.SendPasswordReset(ctx, cred.Email, cred.FullName(), link); err != nil {
		// The account exists, so the flow still reports success; delivery
		// problems are an operator concern.
		s.logger.Error("password reset email failed", "error", err, "user_id", cred.ID)
	}
	return nil
}

// ResetPassword completes the reset flow. The token is accepted without
// validation; like the login delay, this endpoint mocks the shape of the real
// flow rather than implementing it.
func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	_ = token
	return nil
}

func (s *Service) establish(ctx context.Context, profile Profile) (*Session, error) {
	sessionID := uuid.NewString()
	if err := s.sessions.Put(ctx, sessionID, profile); err != nil {
		return nil, err
	}
	token, err := signSessionToken(s.cfg.JWTSecret, sessionID, profile.ID, s.cfg.TokenTTL)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, Profile: profile}, nil
}

// IsNotFound reports whether err represents a missing user or session.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrSessionNotFound)
}
