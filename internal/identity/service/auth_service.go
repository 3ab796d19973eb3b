package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tasktracker/backend/internal/audit"
	"tasktracker/backend/internal/security"
	telemetrydomain "tasktracker/backend/internal/telemetry/domain"
	userdomain "tasktracker/backend/internal/user/domain"
	"tasktracker/backend/internal/validation"
)

var (
	// ErrEmailAlreadyRegistered is returned by Register when the email is already in use.
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	// ErrInvalidCredentials is returned by Login for an unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrMissingRefreshToken is returned by Refresh when no token was presented.
	ErrMissingRefreshToken = errors.New("no refresh token provided")
	// ErrInvalidRefreshToken is returned by Refresh when the token fails verification.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrSessionNotFound is returned by Refresh when the user is gone or has no stored session.
	ErrSessionNotFound = errors.New("user not found or session expired")
	// ErrRefreshTokenMismatch is returned by Refresh when the token is valid but not the current rotation.
	ErrRefreshTokenMismatch = errors.New("refresh token does not match current session")
)

// maxPasswordBytes is bcrypt's input limit.
const maxPasswordBytes = 72

// UserRepo is the subset of the user repository used by AuthService.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	Create(ctx context.Context, u *userdomain.User) error
}

// RefreshStore rotates, checks and clears the per-user refresh-token hash.
type RefreshStore interface {
	Rotate(ctx context.Context, userID, token string) error
	Matches(ctx context.Context, userID, token string) (bool, error)
	Clear(ctx context.Context, userID string) error
}

// RegisterInput is the payload for Register.
type RegisterInput struct {
	Name     string `json:"name" binding:"notblank,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72,password"`
}

// LoginInput is the payload for Login.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResult is returned by Register, Login and Refresh. RefreshToken travels in a cookie only.
type AuthResult struct {
	User         userdomain.PublicUser
	AccessToken  string
	RefreshToken string
}

// Options configures AuthService behavior.
type Options struct {
	// RevokeOnReuse clears the stored session when a valid but superseded refresh token is presented.
	RevokeOnReuse bool
}

// AuthService implements register, login, refresh and logout.
type AuthService struct {
	users     UserRepo
	sessions  RefreshStore
	passwords *security.Hasher
	tokens    *security.TokenCodec
	audit     audit.AuditLogger
	log       *zap.Logger
	opts      Options

	// dummyHash is compared against when the email is unknown so both login failures cost one bcrypt compare.
	dummyHash string
}

// NewAuthService returns an AuthService. auditLogger and log may be nil.
func NewAuthService(
	users UserRepo,
	sessions RefreshStore,
	passwords *security.Hasher,
	tokens *security.TokenCodec,
	auditLogger audit.AuditLogger,
	log *zap.Logger,
	opts Options,
) *AuthService {
	if auditLogger == nil {
		auditLogger = audit.Nop{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &AuthService{
		users:     users,
		sessions:  sessions,
		passwords: passwords,
		tokens:    tokens,
		audit:     auditLogger,
		log:       log,
		opts:      opts,
	}
	if h, err := passwords.Hash([]byte(uuid.NewString())); err == nil {
		s.dummyHash = h
	}
	return s
}

// Register creates a user and starts a session. Validation happens before any store access.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = userdomain.NormalizeEmail(in.Email)
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}
	if len(in.Password) > maxPasswordBytes {
		verr := validation.NewError()
		verr.Add("password", "Password must be at most 72 bytes")
		return nil, verr
	}

	existing, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}

	hash, err := s.passwords.Hash([]byte(in.Password))
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &userdomain.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, userdomain.ErrEmailTaken) {
			return nil, ErrEmailAlreadyRegistered
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	res, err := s.startSession(ctx, u)
	if err != nil {
		return nil, err
	}
	s.audit.LogEvent(ctx, u.ID, telemetrydomain.EventRegister, "session", "")
	return res, nil
}

// Login verifies credentials and starts a session, replacing any previous one.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = userdomain.NormalizeEmail(in.Email)
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if u == nil {
		if s.dummyHash != "" {
			_ = s.passwords.Compare(s.dummyHash, []byte(in.Password))
		}
		s.audit.LogEvent(ctx, "", telemetrydomain.EventLoginFailure, "session", in.Email)
		return nil, ErrInvalidCredentials
	}
	if err := s.passwords.Compare(u.PasswordHash, []byte(in.Password)); err != nil {
		s.audit.LogEvent(ctx, u.ID, telemetrydomain.EventLoginFailure, "session", in.Email)
		return nil, ErrInvalidCredentials
	}

	res, err := s.startSession(ctx, u)
	if err != nil {
		return nil, err
	}
	s.audit.LogEvent(ctx, u.ID, telemetrydomain.EventLogin, "session", "")
	return res, nil
}

// Refresh exchanges the current refresh token for a new pair. The presented token is
// invalidated by the rotation.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, ErrMissingRefreshToken
	}
	claims := s.tokens.Verify(security.KindRefresh, refreshToken)
	if claims == nil {
		s.audit.LogEvent(ctx, "", telemetrydomain.EventRefreshFailure, "session", "invalid")
		return nil, ErrInvalidRefreshToken
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if u == nil || !u.HasSession() {
		s.audit.LogEvent(ctx, claims.UserID, telemetrydomain.EventRefreshFailure, "session", "no session")
		return nil, ErrSessionNotFound
	}

	ok, err := s.sessions.Matches(ctx, u.ID, refreshToken)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.audit.LogEvent(ctx, u.ID, telemetrydomain.EventRefreshReuse, "session", "")
		if s.opts.RevokeOnReuse {
			if err := s.sessions.Clear(ctx, u.ID); err != nil {
				s.log.Warn("refresh reuse: failed to revoke session", zap.String("user_id", u.ID), zap.Error(err))
			}
		}
		return nil, ErrRefreshTokenMismatch
	}

	res, err := s.startSession(ctx, u)
	if err != nil {
		return nil, err
	}
	s.audit.LogEvent(ctx, u.ID, telemetrydomain.EventRefresh, "session", "")
	return res, nil
}

// Logout clears the stored session when refreshToken verifies. It never fails: storage
// errors are logged and audited only.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}
	claims := s.tokens.Verify(security.KindRefresh, refreshToken)
	if claims == nil {
		return
	}
	meta := ""
	if err := s.sessions.Clear(ctx, claims.UserID); err != nil {
		s.log.Warn("logout: failed to clear session", zap.String("user_id", claims.UserID), zap.Error(err))
		meta = "clear failed"
	}
	s.audit.LogEvent(ctx, claims.UserID, telemetrydomain.EventLogout, "session", meta)
}

// startSession issues an access/refresh pair and stores the refresh hash. No token is
// returned unless the hash was written.
func (s *AuthService) startSession(ctx context.Context, u *userdomain.User) (*AuthResult, error) {
	subject := security.Subject{UserID: u.ID, Email: u.Email}
	access, err := s.tokens.Issue(security.KindAccess, subject)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.Issue(security.KindRefresh, subject)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Rotate(ctx, u.ID, refresh); err != nil {
		return nil, err
	}
	return &AuthResult{User: u.Public(), AccessToken: access, RefreshToken: refresh}, nil
}
