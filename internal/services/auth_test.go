package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/force-backend/internal/domain"
	"github.com/yungbote/force-backend/internal/domain/apperr"
	"github.com/yungbote/force-backend/internal/platform/googleauth"
	"github.com/yungbote/force-backend/internal/platform/sessionstore"
)

type fakeIdentity struct {
	profile *googleauth.Profile
	err     error
}

func (f *fakeIdentity) Exchange(context.Context, string, string) (*googleauth.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	p := *f.profile
	return &p, nil
}

type brokenStore struct{ sessionstore.Store }

func (brokenStore) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func newAuth(f *fixture, id IdentityProvider, store sessionstore.Store) *authService {
	return NewAuthService(f.db, f.log, f.users, id, store, "test-secret", time.Hour).(*authService)
}

func TestGoogleLoginCreatesThenReusesUser(t *testing.T) {
	f := newFixture(t)
	id := &fakeIdentity{profile: &googleauth.Profile{ID: "g-123", Email: "ada@example.com", Name: "Ada Lovelace"}}
	as := newAuth(f, id, sessionstore.NewMemoryStore())
	ctx := context.Background()

	first, err := as.GoogleLogin(ctx, "code", "http://localhost/cb")
	require.NoError(t, err)
	assert.NotEmpty(t, first.Token)
	assert.Equal(t, "Ada Lovelace", first.User.Name)

	id.profile.Name = "Ada King"
	second, err := as.GoogleLogin(ctx, "code2", "http://localhost/cb")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Equal(t, "Ada King", second.User.Name)

	p, err := as.Authenticate(ctx, second.Token)
	require.NoError(t, err)
	assert.Equal(t, second.User.ID, p.UserID)
	assert.Equal(t, "ada@example.com", p.Email)
}

func TestGoogleLoginLinksExistingEmail(t *testing.T) {
	f := newFixture(t)
	existing := f.principal(t, "link")
	id := &fakeIdentity{profile: &googleauth.Profile{ID: "g-link", Email: existing.Email, Name: "Linked"}}
	as := newAuth(f, id, nil)

	s, err := as.GoogleLogin(context.Background(), "code", "http://localhost/cb")
	require.NoError(t, err)
	assert.Equal(t, existing.UserID, s.User.ID)
	require.NotNil(t, s.User.GoogleID)
	assert.Equal(t, "g-link", *s.User.GoogleID)
}

func TestGoogleLoginErrors(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name string
		err  error
		want apperr.Code
	}{
		{"bad code", googleauth.ErrExchange, apperr.CodeUnauthenticated},
		{"not configured", googleauth.ErrNotConfigured, apperr.CodeInternal},
		{"network", errors.New("dial tcp: timeout"), apperr.CodeUpstreamUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			as := newAuth(f, &fakeIdentity{err: tc.err}, nil)
			_, err := as.GoogleLogin(context.Background(), "code", "http://localhost/cb")
			assert.Equal(t, tc.want, apperr.CodeOf(err))
		})
	}

	as := newAuth(f, &fakeIdentity{err: errors.New("unused")}, nil)
	_, err := as.GoogleLogin(context.Background(), "", "http://localhost/cb")
	assert.Equal(t, apperr.CodeInvalidArgument, apperr.CodeOf(err))
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	f := newFixture(t)
	p := f.principal(t, "tok")
	as := newAuth(f, nil, nil)
	u := &types.User{ID: p.UserID, Email: p.Email}

	valid, _, err := as.issue(u)
	require.NoError(t, err)

	other := newAuth(f, nil, nil)
	other.jwtSecretKey = []byte("another-secret")
	foreign, _, err := other.issue(u)
	require.NoError(t, err)

	expiring := newAuth(f, nil, nil)
	expiring.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := expiring.issue(u)
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": p.UserID.String(), "iss": sessionIssuer, "jti": "x",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"empty":    "",
		"garbage":  "not-a-jwt",
		"tampered": valid + "a",
		"foreign":  foreign,
		"expired":  expired,
		"alg none": none,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := as.Authenticate(context.Background(), tok)
			assert.Equal(t, apperr.CodeUnauthenticated, apperr.CodeOf(err))
		})
	}

	got, err := as.Authenticate(context.Background(), valid)
	require.NoError(t, err)
	assert.Equal(t, p.UserID, got.UserID)
}

func TestLogoutRevokesSession(t *testing.T) {
	f := newFixture(t)
	p := f.principal(t, "logout")
	as := newAuth(f, nil, sessionstore.NewMemoryStore())
	tok, _, err := as.issue(&types.User{ID: p.UserID, Email: p.Email})
	require.NoError(t, err)

	principal, err := as.Authenticate(context.Background(), tok)
	require.NoError(t, err)
	require.NoError(t, as.Logout(context.Background(), principal))

	_, err = as.Authenticate(context.Background(), tok)
	assert.Equal(t, apperr.CodeUnauthenticated, apperr.CodeOf(err))
	assert.Equal(t, "session has been signed out", apperr.PublicMessage(err))
}

func TestAuthenticateFailsClosedWhenStoreErrors(t *testing.T) {
	f := newFixture(t)
	p := f.principal(t, "closed")
	as := newAuth(f, nil, brokenStore{})
	tok, _, err := as.issue(&types.User{ID: p.UserID, Email: p.Email})
	require.NoError(t, err)

	_, err = as.Authenticate(context.Background(), tok)
	assert.Equal(t, apperr.CodeUnauthenticated, apperr.CodeOf(err))
}
