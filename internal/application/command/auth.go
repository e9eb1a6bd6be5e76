package command

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/learnloop/learnloop-hub/internal/domain/shared"
	"github.com/learnloop/learnloop-hub/internal/domain/user"
	"github.com/learnloop/learnloop-hub/pkg/logger"
)

const minPasswordLength = 8

// TokenIssuer signs an access token for an authenticated user.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// SignupCommand registers a new user account.
type SignupCommand struct {
	Email       string
	Password    string
	DisplayName string
}

// Validate checks signup input before any store work happens.
func (c SignupCommand) Validate() error {
	if !user.Email(c.Email).IsValid() {
		return shared.NewDomainError("auth", "Signup", shared.ErrInvalidFormat, "invalid email address")
	}
	if len(c.Password) < minPasswordLength {
		return shared.NewDomainError("auth", "Signup", shared.ErrValueOutOfRange, "password must be at least 8 characters")
	}
	if strings.TrimSpace(c.DisplayName) == "" {
		return shared.NewDomainError("auth", "Signup", shared.ErrEmptyValue, "display name is required")
	}
	return nil
}

// LoginCommand authenticates an existing user.
type LoginCommand struct {
	Email    string
	Password string
}

// Validate checks login input.
func (c LoginCommand) Validate() error {
	if c.Email == "" || c.Password == "" {
		return shared.NewDomainError("auth", "Login", shared.ErrEmptyValue, "email and password are required")
	}
	return nil
}

// AuthResult is returned by both signup and login.
type AuthResult struct {
	UserID      string
	DisplayName string
	Token       string
}

// AuthHandler implements account registration and login.
type AuthHandler struct {
	users  user.Repository
	tokens TokenIssuer
	log    *logger.Logger
}

// NewAuthHandler wires the auth handler.
func NewAuthHandler(users user.Repository, tokens TokenIssuer, log *logger.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, log: log.With("handler", "auth")}
}

// Signup creates the account and returns a signed token.
func (h *AuthHandler) Signup(ctx context.Context, cmd SignupCommand) (*AuthResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	if existing, err := h.users.GetByEmail(ctx, email); err != nil && !shared.IsNotFound(err) {
		return nil, err
	} else if existing != nil {
		return nil, shared.ErrUserAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.WrapError("auth", "Signup", shared.ErrValidation, "hash password", err)
	}

	u := &user.User{
		ID:           uuid.NewString(),
		Email:        user.Email(email),
		PasswordHash: string(hash),
		DisplayName:  strings.TrimSpace(cmd.DisplayName),
	}
	if err := h.users.Create(ctx, u); err != nil {
		return nil, err
	}

	token, err := h.tokens.Issue(u.ID)
	if err != nil {
		return nil, shared.WrapError("auth", "Signup", shared.ErrStore, "issue token", err)
	}

	h.log.Info("user registered", "user_id", u.ID)
	return &AuthResult{UserID: u.ID, DisplayName: u.DisplayName, Token: token}, nil
}

// Login verifies credentials and returns a signed token. Unknown email and
// wrong password produce the same error so the endpoint does not leak which
// accounts exist.
func (h *AuthHandler) Login(ctx context.Context, cmd LoginCommand) (*AuthResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	u, err := h.users.GetByEmail(ctx, email)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDomainError("auth", "Login", shared.ErrUnauthorized, "invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(cmd.Password)); err != nil {
		return nil, shared.NewDomainError("auth", "Login", shared.ErrUnauthorized, "invalid credentials")
	}

	token, err := h.tokens.Issue(u.ID)
	if err != nil {
		return nil, shared.WrapError("auth", "Login", shared.ErrStore, "issue token", err)
	}

	return &AuthResult{UserID: u.ID, DisplayName: u.DisplayName, Token: token}, nil
}
