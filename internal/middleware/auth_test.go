package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backend/internal/auth"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubUserRepo serves a fixed set of users by id.
type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (r *stubUserRepo) Create(_ context.Context, _ *model.User) error { return nil }

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, errors.New("record not found")
	}
	user, ok := r.users[parsed]
	if !ok {
		return nil, errors.New("record not found")
	}
	return user, nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, _ string) (*model.User, error) {
	return nil, errors.New("record not found")
}

func (r *stubUserRepo) List(_ context.Context, _ repository.UserFilters, _, _ int) ([]model.User, int64, error) {
	return nil, 0, nil
}

func (r *stubUserRepo) Update(_ context.Context, _ *model.User) error            { return nil }
func (r *stubUserRepo) UpdatePassword(_ context.Context, _ string, _ string) error { return nil }
func (r *stubUserRepo) Delete(_ context.Context, _ string) error                 { return nil }

type fixture struct {
	codec *auth.TokenCodec
	mw    *AuthMiddleware
	user  *model.User
}

func newFixture(role, status string) *fixture {
	codec := auth.NewTokenCodec([]byte("test-secret"), time.Hour, 24*time.Hour, 0)
	user := &model.User{ID: uuid.New(), Name: "Test", Email: "t@taller.com", Role: role, Status: status}
	users := &stubUserRepo{users: map[uuid.UUID]*model.User{user.ID: user}}
	return &fixture{
		codec: codec,
		mw:    NewAuthMiddleware(codec, users, auth.DefaultMatrix()),
		user:  user,
	}
}

func (f *fixture) accessToken(t *testing.T) string {
	t.Helper()
	token, err := f.codec.Issue(f.user.ID, auth.PurposeAccess)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	return token
}

func doRequest(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(model.RoleManager, model.UserStatusActive)

	router := gin.New()
	router.GET("/protected", f.mw.Authenticate(), func(c *gin.Context) {
		user, ok := Identity(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "identity missing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": user.ID})
	})

	validToken := f.accessToken(t)
	refreshToken, _ := f.codec.Issue(f.user.ID, auth.PurposeRefresh)

	expiredCodec := auth.NewTokenCodec([]byte("test-secret"), -time.Hour, 24*time.Hour, 0)
	expiredToken, _ := expiredCodec.Issue(f.user.ID, auth.PurposeAccess)

	unknownToken, _ := f.codec.Issue(uuid.New(), auth.PurposeAccess)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + validToken, http.StatusUnauthorized},
		{"no token after scheme", "Bearer", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"expired token", "Bearer " + expiredToken, http.StatusUnauthorized},
		{"refresh token as access", "Bearer " + refreshToken, http.StatusUnauthorized},
		{"unknown subject", "Bearer " + unknownToken, http.StatusUnauthorized},
		{"valid token", "Bearer " + validToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := doRequest(router, tt.header); w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestAuthenticateInactiveUser(t *testing.T) {
	f := newFixture(model.RoleManager, model.UserStatusInactive)

	router := gin.New()
	router.GET("/protected", f.mw.Authenticate(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	if w := doRequest(router, "Bearer "+f.accessToken(t)); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for inactive user", w.Code)
	}
}

func TestOptionalAuthenticate(t *testing.T) {
	f := newFixture(model.RoleManager, model.UserStatusActive)

	router := gin.New()
	router.GET("/protected", f.mw.OptionalAuthenticate(), func(c *gin.Context) {
		if _, ok := Identity(c); ok {
			c.JSON(http.StatusOK, gin.H{"identity": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"identity": false})
	})

	// Anonymous request passes through
	if w := doRequest(router, ""); w.Code != http.StatusOK {
		t.Errorf("anonymous status = %d, want 200", w.Code)
	}

	// Invalid token also passes through, anonymously
	if w := doRequest(router, "Bearer garbage"); w.Code != http.StatusOK {
		t.Errorf("invalid token status = %d, want 200", w.Code)
	}

	// Valid token binds the identity
	w := doRequest(router, "Bearer "+f.accessToken(t))
	if w.Code != http.StatusOK {
		t.Fatalf("valid token status = %d, want 200", w.Code)
	}
	if w.Body.String() != `{"identity":true}` {
		t.Errorf("body = %s, want identity true", w.Body.String())
	}
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name string
		role string
		want int
	}{
		{"admin allowed", model.RoleAdmin, http.StatusOK},
		{"manager allowed", model.RoleManager, http.StatusOK},
		{"front desk denied", model.RoleFrontDesk, http.StatusForbidden},
		{"mechanic denied", model.RoleMechanic, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.role, model.UserStatusActive)

			router := gin.New()
			router.GET("/protected",
				f.mw.Authenticate(),
				f.mw.RequirePermission(auth.ResourceReports, auth.ActionRead),
				func(c *gin.Context) { c.Status(http.StatusOK) },
			)

			if w := doRequest(router, "Bearer "+f.accessToken(t)); w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestRequirePermissionWithoutIdentity(t *testing.T) {
	f := newFixture(model.RoleAdmin, model.UserStatusActive)

	// RequirePermission without a prior Authenticate yields 401, not 403
	router := gin.New()
	router.GET("/protected",
		f.mw.RequirePermission(auth.ResourceReports, auth.ActionRead),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	if w := doRequest(router, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	f := newFixture(model.RoleFrontDesk, model.UserStatusActive)

	router := gin.New()
	router.GET("/protected",
		f.mw.Authenticate(),
		f.mw.RequireRole(model.RoleAdmin),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	if w := doRequest(router, "Bearer "+f.accessToken(t)); w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestRequireOwnerOrAdmin(t *testing.T) {
	owner := newFixture(model.RoleMechanic, model.UserStatusActive)
	ownerID := owner.user.ID.String()

	newRouter := func(f *fixture) *gin.Engine {
		router := gin.New()
		router.GET("/protected",
			f.mw.Authenticate(),
			f.mw.RequireOwnerOrAdmin(func(c *gin.Context) string { return ownerID }),
			func(c *gin.Context) { c.Status(http.StatusOK) },
		)
		return router
	}

	// Owner passes
	if w := doRequest(newRouter(owner), "Bearer "+owner.accessToken(t)); w.Code != http.StatusOK {
		t.Errorf("owner status = %d, want 200", w.Code)
	}

	// Admin passes
	admin := newFixture(model.RoleAdmin, model.UserStatusActive)
	if w := doRequest(newRouter(admin), "Bearer "+admin.accessToken(t)); w.Code != http.StatusOK {
		t.Errorf("admin status = %d, want 200", w.Code)
	}

	// Other identities are rejected
	other := newFixture(model.RoleManager, model.UserStatusActive)
	if w := doRequest(newRouter(other), "Bearer "+other.accessToken(t)); w.Code != http.StatusForbidden {
		t.Errorf("other status = %d, want 403", w.Code)
	}
}
