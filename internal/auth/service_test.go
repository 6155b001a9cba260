package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zawaditap/zawaditap-backend/config"
	"github.com/zawaditap/zawaditap-backend/internal/apperr"
	"github.com/zawaditap/zawaditap-backend/internal/auditlog"
	"github.com/zawaditap/zawaditap-backend/internal/organization"
	"github.com/zawaditap/zawaditap-backend/internal/user"
	"github.com/zawaditap/zawaditap-backend/middleware"
)

func newFixture(t *testing.T) (Service, organization.Service, *config.Config) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&organization.Organization{}, &user.User{}, &auditlog.AuditLog{}))

	cfg := &config.Config{
		JWTSecret:         "test-secret",
		JWTAccessTTLHours: 1,
		AdminEmail:        "admin@zawaditap.test",
		AdminPassword:     "super-secret",
	}

	audit := auditlog.NewService(auditlog.NewRepository(db))
	orgs := organization.NewService(organization.NewRepository(db), audit)
	users := user.NewService(user.NewRepository(db), audit)
	return NewService(cfg, users, orgs, audit), orgs, cfg
}

func TestAdminLogin(t *testing.T) {
	svc, _, cfg := newFixture(t)
	ctx := context.Background()

	resp, err := svc.LoginAdmin(ctx, "admin@zawaditap.test", "super-secret", "")
	require.NoError(t, err)
	require.Equal(t, middleware.RoleAdmin, resp.Role)

	parsed, err := jwt.Parse(resp.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	require.Equal(t, middleware.RoleAdmin, claims["role"])

	_, err = svc.LoginAdmin(ctx, "admin@zawaditap.test", "wrong", "")
	require.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestOrganizationLoginChecks(t *testing.T) {
	svc, orgs, _ := newFixture(t)
	ctx := context.Background()

	org, err := orgs.CreateOrganization(ctx, organization.CreateOrganizationRequest{
		Name: "Acme", Email: "acme@test.local", Password: "password123",
	}, "")
	require.NoError(t, err)

	// unverified email blocks login
	_, _, err = svc.LoginOrganization(ctx, "acme@test.local", "password123", "")
	require.ErrorIs(t, err, apperr.ErrForbidden)

	require.NoError(t, orgs.MarkEmailVerified(ctx, org.ID))

	_, _, err = svc.LoginOrganization(ctx, "acme@test.local", "nope", "")
	require.ErrorIs(t, err, apperr.ErrUnauthorized)

	resp, mfa, err := svc.LoginOrganization(ctx, "acme@test.local", "password123", "")
	require.NoError(t, err)
	require.Nil(t, mfa)
	require.Equal(t, middleware.RoleOrganization, resp.Role)

	_, _, err = svc.LoginOrganization(ctx, "ghost@test.local", "password123", "")
	require.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestDuplicateOrganizationRejected(t *testing.T) {
	svc, _, _ := newFixture(t)
	ctx := context.Background()

	req := organization.CreateOrganizationRequest{Name: "Acme", Email: "dup@test.local", Password: "password123"}
	_, err := svc.RegisterOrganization(ctx, req, "")
	require.NoError(t, err)

	_, err = svc.RegisterOrganization(ctx, req, "")
	require.ErrorIs(t, err, apperr.ErrConflict)
}

func TestIssuedTokenPassesAuthMiddleware(t *testing.T) {
	svc, _, cfg := newFixture(t)
	gin.SetMode(gin.TestMode)

	resp, err := svc.LoginAdmin(context.Background(), "admin@zawaditap.test", "super-secret", "")
	require.NoError(t, err)

	r := gin.New()
	r.Use(middleware.AuthMiddleware(cfg))
	r.GET("/whoami", func(c *gin.Context) {
		identity, ok := middleware.GetIdentity(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"role": identity.Role})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), middleware.RoleAdmin)

	// garbage tokens are rejected
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
