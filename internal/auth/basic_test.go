package auth_test

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prismhq/prism-api/internal/auth"
	"github.com/prismhq/prism-api/internal/domain/user"
	"github.com/prismhq/prism-api/internal/security"
)

type fakeUserReader struct {
	users map[string]user.User
}

func (f *fakeUserReader) GetByEmail(_ context.Context, email string) (user.User, error) {
	u, ok := f.users[email]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func basicHeader(email, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+password))
}

func newVerifier(t *testing.T) *auth.Verifier {
	t.Helper()

	hash, err := security.HashPassword("s3cret!")
	require.NoError(t, err)

	return auth.NewVerifier(&fakeUserReader{
		users: map[string]user.User{
			"a@x.com": {
				ID:           "u-1",
				Email:        "a@x.com",
				PasswordHash: hash,
				Role:         "user",
			},
			"broken@x.com": {
				ID:           "u-2",
				Email:        "broken@x.com",
				PasswordHash: "not-a-bcrypt-hash",
				Role:         "user",
			},
		},
	})
}

func TestVerifyClassifiesFailures(t *testing.T) {
	v := newVerifier(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{name: "empty_header", header: "", wantErr: auth.ErrMissingToken},
		{name: "whitespace_header", header: "   ", wantErr: auth.ErrMissingToken},
		{name: "wrong_scheme", header: "Bearer abcdef", wantErr: auth.ErrInvalidCredentials},
		{name: "bad_base64", header: "Basic %%%not-base64%%%", wantErr: auth.ErrInvalidCredentials},
		{
			name:    "no_separator",
			header:  "Basic " + base64.StdEncoding.EncodeToString([]byte("a@x.com")),
			wantErr: auth.ErrInvalidCredentials,
		},
		{name: "empty_password", header: basicHeader("a@x.com", ""), wantErr: auth.ErrInvalidCredentials},
		{name: "unknown_email", header: basicHeader("nobody@x.com", "s3cret!"), wantErr: auth.ErrBadEmailOrPassword},
		{name: "wrong_password", header: basicHeader("a@x.com", "wrong"), wantErr: auth.ErrBadEmailOrPassword},
		{name: "malformed_stored_hash", header: basicHeader("broken@x.com", "s3cret!"), wantErr: auth.ErrBadEmailOrPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(ctx, tt.header)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestVerifySuccessReturnsIdentity(t *testing.T) {
	v := newVerifier(t)

	id, err := v.Verify(context.Background(), basicHeader("a@x.com", "s3cret!"))
	require.NoError(t, err)

	assert.Equal(t, "u-1", id.UserID)
	assert.Equal(t, "a@x.com", id.Email)
	assert.Equal(t, "user", id.Role)
}

// Unknown email and wrong password must be indistinguishable by message.
func TestFailureMessagesDoNotLeakAccountExistence(t *testing.T) {
	v := newVerifier(t)
	ctx := context.Background()

	_, unknownErr := v.Verify(ctx, basicHeader("nobody@x.com", "whatever"))
	_, wrongErr := v.Verify(ctx, basicHeader("a@x.com", "wrong"))
	_, missingErr := v.Verify(ctx, "")
	_, malformedErr := v.Verify(ctx, "Basic not-base64!")

	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
	assert.NotEqual(t, unknownErr.Error(), missingErr.Error())
	assert.NotEqual(t, unknownErr.Error(), malformedErr.Error())
	assert.NotEqual(t, missingErr.Error(), malformedErr.Error())
}

// The login flow bypasses header encoding; outcomes must match Verify.
func TestVerifyPasswordMatchesVerify(t *testing.T) {
	v := newVerifier(t)
	ctx := context.Background()

	idA, errA := v.VerifyPassword(ctx, "a@x.com", "s3cret!")
	idB, errB := v.Verify(ctx, basicHeader("a@x.com", "s3cret!"))

	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, idA, idB)

	_, errA = v.VerifyPassword(ctx, "a@x.com", "wrong")
	_, errB = v.Verify(ctx, basicHeader("a@x.com", "wrong"))

	assert.True(t, errors.Is(errA, auth.ErrBadEmailOrPassword))
	assert.True(t, errors.Is(errB, auth.ErrBadEmailOrPassword))
}
