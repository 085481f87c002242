package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/prismhq/prism-api/internal/domain/user"
	"github.com/prismhq/prism-api/internal/security"
)

// Identity is what a verified credential resolves to.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// The three user-visible failure classes. Unknown email and wrong
// password deliberately share one message so valid accounts cannot be
// probed; the missing/malformed cases stay distinguishable.
var (
	ErrMissingToken       = errors.New("missing authentication token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrBadEmailOrPassword = errors.New("incorrect email or password")
)

// Keep this small interface so tests can fake it easily.
type UserReader interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

// Verifier is a state-free predicate over the credential store.
type Verifier struct {
	users UserReader
}

func NewVerifier(users UserReader) *Verifier {
	return &Verifier{users: users}
}

// Verify checks a raw Authorization header carrying Basic credentials.
func (v *Verifier) Verify(ctx context.Context, header string) (Identity, error) {
	if strings.TrimSpace(header) == "" {
		return Identity{}, ErrMissingToken
	}

	email, password, err := decodeBasic(header)

	if err != nil {
		return Identity{}, ErrInvalidCredentials
	}

	return v.VerifyPassword(ctx, email, password)
}

// VerifyPassword is the shared credential check. The login flow calls it
// directly rather than re-encoding the pair into a synthetic header; the
// classification of outcomes is identical either way.
func (v *Verifier) VerifyPassword(ctx context.Context, email, password string) (Identity, error) {
	u, err := v.users.GetByEmail(ctx, email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Identity{}, ErrBadEmailOrPassword
		}

		return Identity{}, err
	}

	err = security.CheckPassword(u.PasswordHash, password)

	if err != nil {
		return Identity{}, ErrBadEmailOrPassword
	}

	return Identity{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
	}, nil
}

func decodeBasic(header string) (email, password string, err error) {
	const prefix = "Basic "

	if !strings.HasPrefix(header, prefix) {
		return "", "", errors.New("authorization scheme is not Basic")
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(strings.TrimPrefix(header, prefix)))

	if err != nil {
		return "", "", err
	}

	email, password, ok := strings.Cut(string(raw), ":")

	if !ok || email == "" || password == "" {
		return "", "", errors.New("credentials are not an email:password pair")
	}

	return email, password, nil
}
