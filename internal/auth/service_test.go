package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	pkgauth "github.com/davidquintana/archivio-backend/pkg/auth"
	"github.com/davidquintana/archivio-backend/pkg/auth/session"
	"github.com/davidquintana/archivio-backend/pkg/config"
	"github.com/davidquintana/archivio-backend/pkg/db/models"
	"github.com/davidquintana/archivio-backend/pkg/enums"
	pkgerrors "github.com/davidquintana/archivio-backend/pkg/errors"
	"github.com/davidquintana/archivio-backend/pkg/security"
)

type fakeUserStore struct {
	byEmail    map[string]*models.User
	byID       map[uuid.UUID]*models.User
	lastLogins map[uuid.UUID]time.Time
}

func newFakeUserStore(rows ...*models.User) *fakeUserStore {
	s := &fakeUserStore{
		byEmail:    make(map[string]*models.User),
		byID:       make(map[uuid.UUID]*models.User),
		lastLogins: make(map[uuid.UUID]time.Time),
	}
	for _, row := range rows {
		s.byEmail[row.Email] = row
		s.byID[row.ID] = row
	}
	return s
}

func (s *fakeUserStore) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	row, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	row, ok := s.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (s *fakeUserStore) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	s.lastLogins[id] = at
	return nil
}

type fakeSessionManager struct {
	generated map[string]string
	rotateErr error
	revoked   []string
}

func newFakeSessionManager() *fakeSessionManager {
	return &fakeSessionManager{generated: make(map[string]string)}
}

func (m *fakeSessionManager) Generate(_ context.Context, accessID string) (string, error) {
	token := "refresh-" + accessID
	m.generated[accessID] = token
	return token, nil
}

func (m *fakeSessionManager) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	if m.rotateErr != nil {
		return "", "", m.rotateErr
	}
	token, ok := m.generated[oldAccessID]
	if !ok || token != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(m.generated, oldAccessID)
	newAccessID := session.NewAccessID()
	newToken := "refresh-" + newAccessID
	m.generated[newAccessID] = newToken
	return newAccessID, newToken, nil
}

func (m *fakeSessionManager) Revoke(_ context.Context, accessID string) error {
	m.revoked = append(m.revoked, accessID)
	delete(m.generated, accessID)
	return nil
}

type fakeRateLimiter struct {
	counts map[string]int64
	limits map[string]int64
}

func newFakeRateLimiter() *fakeRateLimiter {
	return &fakeRateLimiter{counts: make(map[string]int64), limits: make(map[string]int64)}
}

func (l *fakeRateLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if override, ok := l.limits[scope]; ok {
		limit = override
	}
	l.counts[scope]++
	return l.counts[scope] <= limit, l.counts[scope], nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "auth-test-secret",
		Issuer:                 "archivio-test",
		ExpirationMinutes:      15,
		RefreshTokenTTLMinutes: 60,
	}
}

func testRateLimitConfig() config.AuthRateLimitConfig {
	return config.AuthRateLimitConfig{
		LoginWindow:     time.Minute,
		LoginEmailLimit: 5,
		LoginIPLimit:    20,
	}
}

func seedUser(t *testing.T, email, password string, active bool) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	})
	require.NoError(t, err)
	return &models.User{
		ID:           uuid.New(),
		Email:        email,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: hash,
		Role:         enums.MemberRoleOperator,
		IsActive:     active,
	}
}

func newTestService(t *testing.T, users *fakeUserStore, sessions *fakeSessionManager, limiter *fakeRateLimiter) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Users:     users,
		Session:   sessions,
		Limiter:   limiter,
		JWTConfig: testJWTConfig(),
		RateLimit: testRateLimitConfig(),
	})
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	users := newFakeUserStore()
	sessions := newFakeSessionManager()
	limiter := newFakeRateLimiter()

	_, err := NewService(ServiceParams{Session: sessions, Limiter: limiter})
	require.Error(t, err)

	_, err = NewService(ServiceParams{Users: users, Limiter: limiter})
	require.Error(t, err)

	_, err = NewService(ServiceParams{Users: users, Session: sessions})
	require.Error(t, err)
}

func TestLoginIssuesTokenPair(t *testing.T) {
	row := seedUser(t, "ana@example.com", "correct horse battery", true)
	users := newFakeUserStore(row)
	sessions := newFakeSessionManager()
	svc := newTestService(t, users, sessions, newFakeRateLimiter())

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "Ana@Example.com",
		Password: "correct horse battery",
	}, "203.0.113.7")
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.Equal(t, row.ID, resp.User.ID)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	require.NoError(t, err)
	require.Equal(t, row.ID, claims.UserID)
	require.Equal(t, enums.MemberRoleOperator, claims.Role)
	require.Equal(t, sessions.generated[claims.ID], resp.RefreshToken)
	require.Contains(t, users.lastLogins, row.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	row := seedUser(t, "ana@example.com", "correct horse battery", true)
	svc := newTestService(t, newFakeUserStore(row), newFakeSessionManager(), newFakeRateLimiter())

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ana@example.com",
		Password: "wrong password here",
	}, "")
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestLoginUnknownEmailSameError(t *testing.T) {
	row := seedUser(t, "ana@example.com", "correct horse battery", true)
	svc := newTestService(t, newFakeUserStore(row), newFakeSessionManager(), newFakeRateLimiter())

	_, errUnknown := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever password",
	}, "")
	_, errWrongPw := svc.Login(context.Background(), LoginRequest{
		Email:    "ana@example.com",
		Password: "wrong password here",
	}, "")
	require.Error(t, errUnknown)
	require.Error(t, errWrongPw)
	require.Equal(t, errWrongPw.Error(), errUnknown.Error())
}

func TestLoginInactiveUser(t *testing.T) {
	row := seedUser(t, "ana@example.com", "correct horse battery", false)
	svc := newTestService(t, newFakeUserStore(row), newFakeSessionManager(), newFakeRateLimiter())

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ana@example.com",
		Password: "correct horse battery",
	}, "")
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestLoginRateLimitedPerEmail(t *testing.T) {
	row := seedUser(t, "ana@example.com", "correct horse battery", true)
	limiter := newFakeRateLimiter()
	limiter.limits["auth:login:email:ana@example.com"] = 2
	svc := newTestService(t, newFakeUserStore(row), newFakeSessionManager(), limiter)

	req := LoginRequest{Email: "ana@example.com", Password: "wrong password here"}
	for i := 0; i < 2; i++ {
		_, err := svc.Login(context.Background(), req, "203.0.113.7")
		require.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
	}
	_, err := svc.Login(context.Background(), req, "203.0.113.7")
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeRateLimit, pkgerrors.As(err).Code())
}

func TestRefreshRotatesSession(t *testing.T) {
	row := seedUser(t, "ana@example.com", "correct horse battery", true)
	users := newFakeUserStore(row)
	sessions := newFakeSessionManager()
	svc := newTestService(t, users, sessions, newFakeRateLimiter())

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ana@example.com",
		Password: "correct horse battery",
	}, "")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.AccessToken)
	require.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The old pair is burned after rotation.
	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())

	// The rotated pair keeps working.
	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  refreshed.AccessToken,
		RefreshToken: refreshed.RefreshToken,
	})
	require.NoError(t, err)
}

func TestRefreshRejectsMismatchedToken(t *testing.T) {
	row := seedUser(t, "ana@example.com", "correct horse battery", true)
	sessions := newFakeSessionManager()
	svc := newTestService(t, newFakeUserStore(row), sessions, newFakeRateLimiter())

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ana@example.com",
		Password: "correct horse battery",
	}, "")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: "not-the-issued-token",
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestRefreshDeactivatedUser(t *testing.T) {
	row := seedUser(t, "ana@example.com", "correct horse battery", true)
	users := newFakeUserStore(row)
	svc := newTestService(t, users, newFakeSessionManager(), newFakeRateLimiter())

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ana@example.com",
		Password: "correct horse battery",
	}, "")
	require.NoError(t, err)

	row.IsActive = false
	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestLogoutRevokesSession(t *testing.T) {
	row := seedUser(t, "ana@example.com", "correct horse battery", true)
	sessions := newFakeSessionManager()
	svc := newTestService(t, newFakeUserStore(row), sessions, newFakeRateLimiter())

	login, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ana@example.com",
		Password: "correct horse battery",
	}, "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), login.AccessToken))
	require.Len(t, sessions.revoked, 1)
	require.Empty(t, sessions.generated)

	_, err = svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  login.AccessToken,
		RefreshToken: login.RefreshToken,
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestLogoutGarbageToken(t *testing.T) {
	row := seedUser(t, "ana@example.com", "correct horse battery", true)
	svc := newTestService(t, newFakeUserStore(row), newFakeSessionManager(), newFakeRateLimiter())

	err := svc.Logout(context.Background(), "not.a.jwt")
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}
