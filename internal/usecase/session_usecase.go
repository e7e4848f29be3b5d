package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"go-profile-builder/internal/domain"
	"go-profile-builder/pkg/apperror"
)

type sessionUsecase struct {
	store  domain.SessionStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionUsecase builds the session usecase. ttl <= 0 falls back to the
// default 24 hour session lifetime.
func NewSessionUsecase(store domain.SessionStore, secret string, ttl time.Duration) domain.SessionUsecase {
	if ttl <= 0 {
		ttl = domain.SessionTTL
	}
	return &sessionUsecase{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

type sessionClaims struct {
	ProfileID string `json:"profile_id,omitempty"`
	Email     string `json:"email,omitempty"`
	LoginTime int64  `json:"login_time"`
	jwt.RegisteredClaims
}

func (u *sessionUsecase) Login(ctx context.Context, userID, profileID, email string) (string, *domain.Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", nil, apperror.BadRequest("User ID is required")
	}

	loginTime := u.now().UTC()
	session := &domain.Session{
		UserID:    userID,
		ProfileID: profileID,
		Email:     email,
		LoginTime: loginTime,
	}

	claims := sessionClaims{
		ProfileID: profileID,
		Email:     email,
		LoginTime: loginTime.Unix(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(loginTime),
			ExpiresAt: jwt.NewNumericDate(loginTime.Add(u.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(u.secret)
	if err != nil {
		slog.Error("Failed to sign session token", "error", err)
		return "", nil, apperror.Internal(err)
	}

	if err := u.store.Set(ctx, session); err != nil {
		slog.Error("Failed to persist session", "user_id", userID, "error", err)
		return "", nil, apperror.Internal(err)
	}

	return token, session, nil
}

func (u *sessionUsecase) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperror.Unauthorized("Missing session token")
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return u.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, apperror.Unauthorized("Invalid session token")
	}

	userID := claims.Subject
	if userID == "" {
		return nil, apperror.Unauthorized("Invalid session token")
	}

	session, err := u.store.Get(ctx, userID)
	if err != nil {
		slog.Warn("Session lookup failed", "user_id", userID, "error", err)
		return nil, apperror.Unauthorized("Session expired, please log in again")
	}
	if session == nil {
		// Store entry gone: logged out or evicted. The token alone is not
		// enough.
		return nil, apperror.Unauthorized("Session expired, please log in again")
	}

	if !session.Valid(u.now(), u.ttl) {
		_ = u.store.Clear(ctx, userID)
		return nil, apperror.Unauthorized("Session expired, please log in again")
	}

	return session, nil
}

func (u *sessionUsecase) Logout(ctx context.Context, userID string) error {
	if err := requireSelf(ctx, userID); err != nil {
		return err
	}
	if err := u.store.Clear(ctx, userID); err != nil {
		slog.Warn("Failed to clear session", "user_id", userID, "error", err)
		return apperror.Internal(err)
	}
	return nil
}
