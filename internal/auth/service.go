// Package auth orchestrates sign-up, sign-in and session token checks on top
// of the identity store, the password hasher and the token codec.
//
// Every Service method returns either a value or an *Error; expected
// failures are never panics.
package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"carteira/internal/models"
	"carteira/internal/store"
	"carteira/internal/util"
)

// UserStore is the identity store the service depends on.
// Lookups return store.ErrNotFound when nothing matches and Create returns
// store.ErrDuplicate when the email is taken.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	UpdateName(ctx context.Context, id, name string) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}

// User is the sanitized view of models.User; the digest never leaves the service.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session is what a successful sign-up or sign-in yields.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type SignUpInput struct {
	Email    string
	Password string
	Name     string
}

type SignInInput struct {
	Email    string
	Password string
}

type Service struct {
	users  UserStore
	tokens *util.TokenCodec
}

func NewService(users UserStore, tokens *util.TokenCodec) *Service {
	return &Service{users: users, tokens: tokens}
}

// TokenTTL is the lifetime of issued tokens (and of the session cookies).
func (s *Service) TokenTTL() time.Duration {
	return s.tokens.TTL()
}

// SignUp registers a new user and opens a session for it.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*Session, error) {
	email := strings.TrimSpace(in.Email)

	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, ErrEmailAlreadyExists
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return nil, newError(KindDatabase, "could not check email", err)
	}

	hash, err := util.HashPassword(in.Password)
	if err != nil {
		return nil, newError(KindDatabase, msgDatabase, err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
	}
	if err := s.users.Create(ctx, user); err != nil {
		// the unique index caught a concurrent sign-up
		if errors.Is(err, store.ErrDuplicate) {
			return nil, newError(KindEmailAlreadyExists, msgEmailExists, err)
		}
		return nil, newError(KindDatabase, "could not create user", err)
	}
	if user.ID == "" {
		return nil, newError(KindDatabase, "could not create user", errors.New("store returned no id"))
	}

	return s.openSession(user)
}

// SignIn checks the credentials and opens a session.
func (s *Service) SignIn(ctx context.Context, in SignInInput) (*Session, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// spend the same KDF time as a real check
			util.CheckPassword(in.Password, dummyDigest())
			return nil, ErrUserNotFound
		}
		return nil, newError(KindDatabase, "could not find user", err)
	}

	if !util.CheckPassword(in.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.openSession(user)
}

// Me loads the user behind an authenticated session. A user that vanished
// behind a valid token is an authentication failure, not a lookup failure.
func (s *Service) Me(ctx context.Context, userID string) (*User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(KindUnauthorized, "user not found", err)
		}
		return nil, newError(KindDatabase, "could not load user", err)
	}
	view := sanitize(user)
	return &view, nil
}

// VerifyToken resolves a bearer token to a user id. All codec failures
// (bad signature, expired, malformed) look the same to the caller.
func (s *Service) VerifyToken(token string) (string, error) {
	if token == "" {
		return "", ErrUnauthorized
	}
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return "", newError(KindUnauthorized, "invalid token", err)
	}
	return userID, nil
}

// UpdateProfile changes the display name.
func (s *Service) UpdateProfile(ctx context.Context, userID, name string) (*User, error) {
	if err := s.users.UpdateName(ctx, userID, strings.TrimSpace(name)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(KindUnauthorized, "user not found", err)
		}
		return nil, newError(KindDatabase, "could not update user", err)
	}
	return s.Me(ctx, userID)
}

// ChangePassword replaces the digest after checking the current password.
// Tokens issued before the change stay valid until they expire.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return newError(KindUnauthorized, "user not found", err)
		}
		return newError(KindDatabase, "could not load user", err)
	}
	if !util.CheckPassword(oldPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	hash, err := util.HashPassword(newPassword)
	if err != nil {
		return newError(KindDatabase, msgDatabase, err)
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return newError(KindDatabase, "could not update password", err)
	}
	return nil
}

func (s *Service) openSession(user *models.User) (*Session, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, newError(KindDatabase, msgDatabase, err)
	}
	return &Session{User: sanitize(user), Token: token}, nil
}

func sanitize(u *models.User) User {
	return User{ID: u.ID, Email: u.Email, Name: u.Name}
}

var dummyDigest = sync.OnceValue(func() string {
	d, err := util.HashPassword("carteira-dummy-password")
	if err != nil {
		return ""
	}
	return d
})
