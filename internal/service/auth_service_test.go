package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"backend/internal/auth"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// stubUserRepo is an in-memory UserRepository for service tests.
type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo(users ...*model.User) *stubUserRepo {
	repo := &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *stubUserRepo) Create(_ context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = user
	return nil
}

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

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubUserRepo) List(_ context.Context, _ repository.UserFilters, _, _ int) ([]model.User, int64, error) {
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *stubUserRepo) Update(_ context.Context, user *model.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id string, passwordHash string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return errors.New("record not found")
	}
	user, ok := r.users[parsed]
	if !ok {
		return errors.New("record not found")
	}
	user.Password = passwordHash
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return errors.New("record not found")
	}
	delete(r.users, parsed)
	return nil
}

// stubAuditRepo records audit entries in memory.
type stubAuditRepo struct {
	entries     []model.AuditLog
	lastFilters repository.AuditFilters
}

func (r *stubAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *stubAuditRepo) List(_ context.Context, filters repository.AuditFilters, _, _ int) ([]model.AuditLog, int64, error) {
	r.lastFilters = filters
	out := []model.AuditLog{}
	for _, e := range r.entries {
		if filters.Action != "" && e.Action != filters.Action {
			continue
		}
		if filters.UserID != "" && (e.UserID == nil || e.UserID.String() != filters.UserID) {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (r *stubAuditRepo) actions() []string {
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}
	return string(hash)
}

func testUser(t *testing.T, email, password, role, status string) *model.User {
	t.Helper()
	return &model.User{
		ID:       uuid.New(),
		Name:     "Test User",
		Email:    email,
		Password: mustHash(t, password),
		Role:     role,
		Status:   status,
	}
}

func newTestAuthService(users *stubUserRepo, audit *stubAuditRepo) (AuthService, *auth.TokenCodec) {
	codec := auth.NewTokenCodec([]byte("test-secret"), time.Hour, 24*time.Hour, 0)
	return NewAuthService(users, audit, codec, time.Hour, 6), codec
}

func TestLoginSuccess(t *testing.T) {
	user := testUser(t, "ana@taller.com", "secret123", model.RoleManager, model.UserStatusActive)
	users := newStubUserRepo(user)
	audit := &stubAuditRepo{}
	svc, codec := newTestAuthService(users, audit)

	res, err := svc.Login(context.Background(), LoginRequest{Email: "ana@taller.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if res.User.Email != user.Email {
		t.Errorf("response user email = %s, want %s", res.User.Email, user.Email)
	}

	subject, err := codec.VerifyPurpose(res.AccessToken, auth.PurposeAccess)
	if err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	if subject != user.ID {
		t.Errorf("access token subject = %s, want %s", subject, user.ID)
	}

	if _, err := codec.VerifyPurpose(res.RefreshToken, auth.PurposeRefresh); err != nil {
		t.Fatalf("refresh token invalid: %v", err)
	}

	found := false
	for _, action := range audit.actions() {
		if action == model.ActionLogin {
			found = true
		}
	}
	if !found {
		t.Error("successful login was not audited")
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	user := testUser(t, "ana@taller.com", "secret123", model.RoleManager, model.UserStatusActive)
	users := newStubUserRepo(user)
	svc, _ := newTestAuthService(users, &stubAuditRepo{})

	_, errUnknown := svc.Login(context.Background(), LoginRequest{Email: "nobody@taller.com", Password: "secret123"})
	_, errWrongPw := svc.Login(context.Background(), LoginRequest{Email: "ana@taller.com", Password: "wrong"})

	if !errors.Is(errUnknown, auth.ErrInvalidCredentials) {
		t.Errorf("unknown email returned %v, want ErrInvalidCredentials", errUnknown)
	}
	if !errors.Is(errWrongPw, auth.ErrInvalidCredentials) {
		t.Errorf("wrong password returned %v, want ErrInvalidCredentials", errWrongPw)
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Errorf("error messages differ: %q vs %q", errUnknown, errWrongPw)
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	user := testUser(t, "ana@taller.com", "secret123", model.RoleManager, model.UserStatusInactive)
	svc, _ := newTestAuthService(newStubUserRepo(user), &stubAuditRepo{})

	_, err := svc.Login(context.Background(), LoginRequest{Email: "ana@taller.com", Password: "secret123"})
	if !errors.Is(err, auth.ErrAccountInactive) {
		t.Errorf("inactive login returned %v, want ErrAccountInactive", err)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	user := testUser(t, "ana@taller.com", "secret123", model.RoleManager, model.UserStatusActive)
	svc, codec := newTestAuthService(newStubUserRepo(user), &stubAuditRepo{})

	accessToken, err := codec.Issue(user.ID, auth.PurposeAccess)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := svc.Refresh(context.Background(), accessToken); !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("Refresh with access token returned %v, want ErrInvalidToken", err)
	}
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	user := testUser(t, "ana@taller.com", "secret123", model.RoleManager, model.UserStatusActive)
	svc, codec := newTestAuthService(newStubUserRepo(user), &stubAuditRepo{})

	refreshToken, err := codec.Issue(user.ID, auth.PurposeRefresh)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	res, err := svc.Refresh(context.Background(), refreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	subject, err := codec.VerifyPurpose(res.AccessToken, auth.PurposeAccess)
	if err != nil {
		t.Fatalf("refreshed access token invalid: %v", err)
	}
	if subject != user.ID {
		t.Errorf("refreshed token subject = %s, want %s", subject, user.ID)
	}
}

func TestRefreshRejectsInactiveUser(t *testing.T) {
	user := testUser(t, "ana@taller.com", "secret123", model.RoleManager, model.UserStatusInactive)
	svc, codec := newTestAuthService(newStubUserRepo(user), &stubAuditRepo{})

	refreshToken, err := codec.Issue(user.ID, auth.PurposeRefresh)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := svc.Refresh(context.Background(), refreshToken); !errors.Is(err, auth.ErrAccountInactive) {
		t.Errorf("Refresh for inactive user returned %v, want ErrAccountInactive", err)
	}
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	user := testUser(t, "ana@taller.com", "secret123", model.RoleManager, model.UserStatusActive)
	svc, _ := newTestAuthService(newStubUserRepo(user), &stubAuditRepo{})

	err := svc.ChangePassword(context.Background(), user, ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "newsecret",
	})
	if !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("ChangePassword with wrong current returned %v, want ErrInvalidCredentials", err)
	}
}

func TestChangePasswordWeakLeavesHashUntouched(t *testing.T) {
	user := testUser(t, "ana@taller.com", "secret123", model.RoleManager, model.UserStatusActive)
	before := user.Password
	svc, _ := newTestAuthService(newStubUserRepo(user), &stubAuditRepo{})

	err := svc.ChangePassword(context.Background(), user, ChangePasswordRequest{
		CurrentPassword: "secret123",
		NewPassword:     "short",
	})
	if !errors.Is(err, auth.ErrWeakPassword) {
		t.Errorf("ChangePassword with short password returned %v, want ErrWeakPassword", err)
	}
	if user.Password != before {
		t.Error("stored hash changed after rejected password change")
	}
}

func TestChangePasswordSuccess(t *testing.T) {
	user := testUser(t, "ana@taller.com", "secret123", model.RoleManager, model.UserStatusActive)
	users := newStubUserRepo(user)
	audit := &stubAuditRepo{}
	svc, _ := newTestAuthService(users, audit)

	err := svc.ChangePassword(context.Background(), user, ChangePasswordRequest{
		CurrentPassword: "secret123",
		NewPassword:     "newsecret",
	})
	if err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	stored, _ := users.GetByID(context.Background(), user.ID.String())
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("newsecret")); err != nil {
		t.Error("stored hash does not match new password")
	}

	found := false
	for _, action := range audit.actions() {
		if action == model.ActionChangePassword {
			found = true
		}
	}
	if !found {
		t.Error("password change was not audited")
	}
}
