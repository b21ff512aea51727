package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"airbrb/internal/app/apperr"
	domainauth "airbrb/internal/domain/auth"
	domainuser "airbrb/internal/domain/user"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid username or password")
	ErrPasswordTooShort   = errors.New("auth: password must be at least 8 characters")
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer signs and verifies bearer tokens whose subject is the user id.
type TokenIssuer interface {
	Issue(subject string, issuedAt time.Time, ttl time.Duration) (string, error)
	Verify(token string) (subject string, err error)
}

// rehasher is implemented by hashers that can tell when a stored hash is outdated.
type rehasher interface {
	NeedsRehash(hash string) bool
}

type Service struct {
	Users      domainuser.Repository
	Sessions   domainauth.SessionStore
	Passwords  PasswordHasher
	Tokens     TokenIssuer
	SessionTTL time.Duration
	Logger     *slog.Logger
	Clock      func() time.Time
}

type RegisterParams struct {
	Email    string
	Name     string
	Password string
}

type LoginParams struct {
	Email    string
	Password string
}

type AuthResult struct {
	User  *domainuser.User
	Token string
}

type ResolveResult struct {
	User    *domainuser.User
	Session *domainauth.Session
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	id, err := domainuser.IDFromEmail(params.Email)
	if err != nil {
		return nil, apperr.Input(err)
	}
	if strings.TrimSpace(params.Name) == "" {
		return nil, apperr.Input(domainuser.ErrNameRequired)
	}
	if err := s.validatePassword(params.Password); err != nil {
		return nil, err
	}
	if _, err := s.Users.ByID(ctx, id); err == nil {
		return nil, apperr.Input(domainuser.ErrEmailAlreadyUsed)
	} else if !errors.Is(err, domainuser.ErrNotFound) {
		return nil, err
	}
	hash, err := s.Passwords.Hash(params.Password)
	if err != nil {
		return nil, err
	}
	user, err := domainuser.NewUser(domainuser.CreateParams{
		Email:        params.Email,
		Name:         params.Name,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	})
	if err != nil {
		return nil, apperr.Input(err)
	}
	if err := s.Users.Save(ctx, user); err != nil {
		if errors.Is(err, domainuser.ErrEmailAlreadyUsed) {
			return nil, apperr.Input(err)
		}
		return nil, err
	}
	token, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("user registered", "user_id", user.ID)
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *Service) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	id, err := domainuser.IDFromEmail(params.Email)
	if err != nil {
		return nil, apperr.Input(ErrInvalidCredentials)
	}
	user, err := s.Users.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil, apperr.Input(ErrInvalidCredentials)
		}
		return nil, err
	}
	if err := s.Passwords.Compare(user.PasswordHash, params.Password); err != nil {
		return nil, apperr.Input(ErrInvalidCredentials)
	}
	s.upgradeHash(ctx, user, params.Password)
	token, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("user authenticated", "user_id", user.ID)
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Logout revokes the session behind token. An unknown token is not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.ensureDependencies(); err != nil {
		return err
	}
	token = NormalizeToken(token)
	if token == "" {
		return apperr.Access(domainauth.ErrTokenRequired)
	}
	if err := s.Sessions.Delete(ctx, domainauth.Token(token)); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("session terminated")
	}
	return nil
}

// ResolveToken accepts "Bearer <token>" or the bare token. A token with a valid
// signature but no live session is rejected, which is how logout takes effect.
func (s *Service) ResolveToken(ctx context.Context, token string) (*ResolveResult, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	token = NormalizeToken(token)
	if token == "" {
		return nil, apperr.Access(domainauth.ErrTokenRequired)
	}
	subject, err := s.Tokens.Verify(token)
	if err != nil {
		return nil, apperr.Access(fmt.Errorf("%w: %v", domainauth.ErrSessionNotFound, err))
	}
	session, err := s.Sessions.Get(ctx, domainauth.Token(token))
	if err != nil {
		if errors.Is(err, domainauth.ErrSessionNotFound) {
			return nil, apperr.Access(err)
		}
		return nil, err
	}
	if !session.BelongsTo(domainuser.ID(subject)) || session.Expired(s.now()) {
		_ = s.Sessions.Delete(ctx, session.Token)
		return nil, apperr.Access(domainauth.ErrSessionNotFound)
	}
	user, err := s.Users.ByID(ctx, session.UserID)
	if err != nil {
		_ = s.Sessions.Delete(ctx, session.Token)
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil, apperr.Access(domainauth.ErrSessionNotFound)
		}
		return nil, err
	}
	return &ResolveResult{User: user, Session: session}, nil
}

// NormalizeToken strips an optional "Bearer " prefix.
func NormalizeToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

func (s *Service) issueSession(ctx context.Context, user *domainuser.User) (string, error) {
	now := s.now()
	token, err := s.Tokens.Issue(string(user.ID), now, s.sessionTTL())
	if err != nil {
		return "", err
	}
	session, err := domainauth.NewSession(domainauth.CreateSessionParams{
		Token:  domainauth.Token(token),
		UserID: user.ID,
		TTL:    s.sessionTTL(),
		Now:    now,
	})
	if err != nil {
		return "", err
	}
	if err := s.Sessions.Save(ctx, session); err != nil {
		return "", err
	}
	return token, nil
}

// upgradeHash re-hashes the password after a successful login when the hasher's cost
// changed. Failures only log: the login itself already succeeded.
func (s *Service) upgradeHash(ctx context.Context, user *domainuser.User, password string) {
	r, ok := s.Passwords.(rehasher)
	if !ok || !r.NeedsRehash(user.PasswordHash) {
		return
	}
	hash, err := s.Passwords.Hash(password)
	if err == nil {
		user.PasswordHash = hash
		err = s.Users.Save(ctx, user)
	}
	if err != nil && s.Logger != nil {
		s.Logger.Warn("password rehash failed", "user_id", user.ID, "error", err)
	}
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *Service) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return 24 * time.Hour
}

func (s *Service) validatePassword(password string) error {
	if utf8.RuneCountInString(password) < 8 {
		return apperr.Input(ErrPasswordTooShort)
	}
	return nil
}

func (s *Service) ensureDependencies() error {
	switch {
	case s.Users == nil:
		return errors.New("auth: user repository required")
	case s.Sessions == nil:
		return errors.New("auth: session store required")
	case s.Passwords == nil:
		return errors.New("auth: password hasher required")
	case s.Tokens == nil:
		return errors.New("auth: token issuer required")
	default:
		return nil
	}
}
