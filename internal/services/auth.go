package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/force-backend/internal/data/repos"
	types "github.com/yungbote/force-backend/internal/domain"
	"github.com/yungbote/force-backend/internal/domain/apperr"
	"github.com/yungbote/force-backend/internal/pkg/dbctx"
	"github.com/yungbote/force-backend/internal/platform/googleauth"
	"github.com/yungbote/force-backend/internal/platform/logger"
	"github.com/yungbote/force-backend/internal/platform/sessionstore"
)

const sessionIssuer = "force"

// IdentityProvider turns an OAuth authorization code into a profile.
type IdentityProvider interface {
	Exchange(ctx context.Context, code, redirectURI string) (*googleauth.Profile, error)
}

// Session is a freshly issued login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *types.User
}

type AuthService interface {
	GoogleLogin(ctx context.Context, code, redirectURI string) (*Session, error)
	// Authenticate verifies a session token without touching the database.
	Authenticate(ctx context.Context, token string) (types.Principal, error)
	Logout(ctx context.Context, p types.Principal) error
	SessionTTL() time.Duration
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	identity     IdentityProvider
	revoked      sessionstore.Store
	jwtSecretKey []byte
	sessionTTL   time.Duration
	now          func() time.Time
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	identity IdentityProvider,
	revoked sessionstore.Store,
	jwtSecretKey string,
	sessionTTL time.Duration,
) AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 30 * 24 * time.Hour
	}
	if revoked == nil {
		revoked = sessionstore.NewMemoryStore()
	}
	return &authService{
		db:           db,
		log:          log.With("service", "AuthService"),
		userRepo:     userRepo,
		identity:     identity,
		revoked:      revoked,
		jwtSecretKey: []byte(jwtSecretKey),
		sessionTTL:   sessionTTL,
		now:          time.Now,
	}
}

func (as *authService) SessionTTL() time.Duration { return as.sessionTTL }

func (as *authService) GoogleLogin(ctx context.Context, code, redirectURI string) (*Session, error) {
	const op = "auth.google_login"
	code = strings.TrimSpace(code)
	redirectURI = strings.TrimSpace(redirectURI)
	if code == "" || redirectURI == "" {
		return nil, apperr.New(apperr.CodeInvalidArgument, op, "code and redirectUri are required")
	}

	profile, err := as.identity.Exchange(ctx, code, redirectURI)
	if err != nil {
		as.log.Warn("google login failed", "error", err)
		switch {
		case errors.Is(err, googleauth.ErrExchange):
			return nil, apperr.Wrap(apperr.CodeUnauthenticated, op, "google sign-in failed", err)
		case errors.Is(err, googleauth.ErrNotConfigured):
			return nil, apperr.Wrap(apperr.CodeInternal, op, "google sign-in is not configured", err)
		default:
			return nil, apperr.Wrap(apperr.CodeUpstreamUnavailable, op, "google sign-in is temporarily unavailable", err)
		}
	}

	var theUser *types.User
	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := as.upsertGoogleUser(dbctx.Context{Ctx: ctx, Tx: tx}, profile)
		if err != nil {
			return err
		}
		theUser = u
		return nil
	}); err != nil {
		as.log.Warn("google login transaction error", "error", err)
		return nil, err
	}

	token, expiresAt, err := as.issue(theUser)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, op, "", err)
	}
	as.log.Info("user signed in", "user_id", theUser.ID)
	return &Session{Token: token, ExpiresAt: expiresAt, User: theUser}, nil
}

// upsertGoogleUser matches by google id first, then by email, so accounts
// created through POST /users get linked on first sign-in.
func (as *authService) upsertGoogleUser(dbc dbctx.Context, p *googleauth.Profile) (*types.User, error) {
	existing, err := as.userRepo.FindByGoogleID(dbc, p.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		existing, err = as.userRepo.FindByEmail(dbc, p.Email)
		if err != nil {
			return nil, err
		}
	}
	if existing == nil {
		name := p.Name
		if name == "" {
			name = p.Email
		}
		googleID := p.ID
		return as.userRepo.Create(dbc, &types.User{
			Email:    p.Email,
			Name:     name,
			GoogleID: &googleID,
			Picture:  p.Picture,
		})
	}
	name := p.Name
	if name == "" {
		name = existing.Name
	}
	return as.userRepo.UpdateIdentity(dbc, existing.ID, p.ID, name, p.Picture)
}

func (as *authService) issue(u *types.User) (string, time.Time, error) {
	now := as.now().UTC()
	exp := now.Add(as.sessionTTL)
	claims := sessionClaims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   u.ID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.jwtSecretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, exp, nil
}

func (as *authService) Authenticate(ctx context.Context, token string) (types.Principal, error) {
	const op = "auth.authenticate"
	token = strings.TrimSpace(token)
	if token == "" {
		return types.Principal{}, apperr.New(apperr.CodeUnauthenticated, op, "")
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return as.jwtSecretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(as.now),
	)
	if err != nil || !parsed.Valid {
		return types.Principal{}, apperr.Wrap(apperr.CodeUnauthenticated, op, "invalid or expired session", err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil || claims.ID == "" {
		return types.Principal{}, apperr.New(apperr.CodeUnauthenticated, op, "invalid or expired session")
	}

	revoked, err := as.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		as.log.Warn("session revocation check failed", "session_id", claims.ID, "error", err)
		return types.Principal{}, apperr.Wrap(apperr.CodeUnauthenticated, op, "", err)
	}
	if revoked {
		return types.Principal{}, apperr.New(apperr.CodeUnauthenticated, op, "session has been signed out")
	}

	return types.Principal{
		UserID:    userID,
		Email:     claims.Email,
		SessionID: claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (as *authService) Logout(ctx context.Context, p types.Principal) error {
	const op = "auth.logout"
	if err := requirePrincipal(op, p); err != nil {
		return err
	}
	if err := as.revoked.Revoke(ctx, p.SessionID, p.ExpiresAt); err != nil {
		as.log.Warn("revoke session failed", "session_id", p.SessionID, "error", err)
		return apperr.Wrap(apperr.CodeStorage, op, "failed to sign out", err)
	}
	as.log.Info("user signed out", "user_id", p.UserID)
	return nil
}
