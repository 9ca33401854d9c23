package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	sessionholder "github.com/andresfontal/voltio-backend/internal/session"
	pkgauth "github.com/andresfontal/voltio-backend/pkg/auth"
	"github.com/andresfontal/voltio-backend/pkg/auth/session"
	"github.com/andresfontal/voltio-backend/pkg/config"
	"github.com/andresfontal/voltio-backend/pkg/db/models"
	"github.com/andresfontal/voltio-backend/pkg/enums"
	pkgerrors "github.com/andresfontal/voltio-backend/pkg/errors"
	"github.com/andresfontal/voltio-backend/pkg/security"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "voltio",
		ExpirationMinutes: 30,
	}
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

type stubUserRepo struct {
	user *models.User
}

func (s stubUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s stubUserRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	if s.user != nil && s.user.ID == id {
		s.user.LastLoginAt = &at
	}
	return nil
}

type stubSessionManager struct {
	refreshToken string
	rotateErr    error
	newAccessID  string
	revoked      []string
}

func (s *stubSessionManager) Generate(_ context.Context, _ string) (string, error) {
	return s.refreshToken, nil
}

func (s *stubSessionManager) Rotate(_ context.Context, _, _ string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	return s.newAccessID, "rotated-" + s.refreshToken, nil
}

func (s *stubSessionManager) Revoke(_ context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

type stubHolder struct {
	snapshots map[string]sessionholder.CurrentUser
}

func newStubHolder() *stubHolder {
	return &stubHolder{snapshots: map[string]sessionholder.CurrentUser{}}
}

func (s *stubHolder) SetCurrent(_ context.Context, sessionID string, user sessionholder.CurrentUser) error {
	s.snapshots[sessionID] = user
	return nil
}

func (s *stubHolder) Clear(_ context.Context, sessionID string) error {
	delete(s.snapshots, sessionID)
	return nil
}

func activeUser(t *testing.T, password string, role enums.UserRole) *models.User {
	t.Helper()
	return &models.User{
		ID:           uuid.New(),
		Email:        "ana@example.com",
		PasswordHash: mustHashPassword(t, password),
		FirstName:    "Ana",
		LastName:     "Reyes",
		Role:         role,
		Points:       120,
		IsActive:     true,
	}
}

func buildTestService(t *testing.T, user *models.User, mgr *stubSessionManager, holder *stubHolder) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		UserRepo:       stubUserRepo{user: user},
		SessionManager: mgr,
		CurrentUser:    holder,
		JWTConfig:      testJWTConfig(),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestServiceLogin(t *testing.T) {
	password := "customer-secret"
	user := activeUser(t, password, enums.UserRoleCustomer)
	mgr := &stubSessionManager{refreshToken: "refresh-token"}
	holder := newStubHolder()
	svc := buildTestService(t, user, mgr, holder)

	resp, err := svc.Login(context.Background(), LoginRequest{
		Email:    "  Ana@Example.com ",
		Password: password,
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.RefreshToken != "refresh-token" {
		t.Fatalf("expected refresh token set, got %q", resp.RefreshToken)
	}
	if resp.User == nil || resp.User.ID != user.ID {
		t.Fatalf("expected user in response")
	}
	if user.LastLoginAt == nil {
		t.Fatal("expected last login recorded")
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.UserRoleCustomer {
		t.Fatalf("expected customer role claim, got %s", claims.Role)
	}
	snapshot, ok := holder.snapshots[claims.ID]
	if !ok {
		t.Fatalf("expected current-user snapshot stored under jti %s", claims.ID)
	}
	if snapshot.ID != user.ID || snapshot.Points != user.Points {
		t.Fatalf("snapshot mismatch: %+v", snapshot)
	}
}

func TestServiceLoginWrongPassword(t *testing.T) {
	user := activeUser(t, "right-password", enums.UserRoleCustomer)
	svc := buildTestService(t, user, &stubSessionManager{refreshToken: "r"}, newStubHolder())

	_, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: "wrong-password"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestServiceLoginInactiveUser(t *testing.T) {
	password := "inactive-secret"
	user := activeUser(t, password, enums.UserRoleSeller)
	user.IsActive = false
	svc := buildTestService(t, user, &stubSessionManager{refreshToken: "r"}, newStubHolder())

	_, err := svc.Login(context.Background(), LoginRequest{Email: user.Email, Password: password})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestServiceLogout(t *testing.T) {
	user := activeUser(t, "pw", enums.UserRoleCustomer)
	mgr := &stubSessionManager{refreshToken: "r"}
	holder := newStubHolder()
	holder.snapshots["jti-1"] = sessionholder.CurrentUser{ID: user.ID, Email: user.Email}
	svc := buildTestService(t, user, mgr, holder)

	if err := svc.Logout(context.Background(), "jti-1"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if len(mgr.revoked) != 1 || mgr.revoked[0] != "jti-1" {
		t.Fatalf("expected session revoked, got %v", mgr.revoked)
	}
	if _, ok := holder.snapshots["jti-1"]; ok {
		t.Fatal("expected snapshot cleared")
	}
}

func TestServiceRefreshRotatesSession(t *testing.T) {
	user := activeUser(t, "pw", enums.UserRoleAdmin)
	mgr := &stubSessionManager{refreshToken: "refresh-token", newAccessID: "jti-new"}
	holder := newStubHolder()
	holder.snapshots["jti-old"] = sessionholder.CurrentUser{ID: user.ID, Email: user.Email, Role: user.Role}
	svc := buildTestService(t, user, mgr, holder)

	expired, err := pkgauth.MintAccessToken(testJWTConfig(), time.Now().Add(-2*time.Hour), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		JTI:    "jti-old",
	})
	if err != nil {
		t.Fatalf("mint expired token: %v", err)
	}

	resp, err := svc.Refresh(context.Background(), RefreshRequest{
		AccessToken:  expired,
		RefreshToken: "refresh-token",
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if resp.RefreshToken != "rotated-refresh-token" {
		t.Fatalf("expected rotated refresh token, got %q", resp.RefreshToken)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("parse new access token: %v", err)
	}
	if claims.ID != "jti-new" {
		t.Fatalf("expected new jti, got %s", claims.ID)
	}
	if _, ok := holder.snapshots["jti-old"]; ok {
		t.Fatal("expected old snapshot cleared")
	}
	if _, ok := holder.snapshots["jti-new"]; !ok {
		t.Fatal("expected new snapshot stored")
	}
}

func TestServiceRefreshInvalidToken(t *testing.T) {
	user := activeUser(t, "pw", enums.UserRoleCustomer)
	mgr := &stubSessionManager{rotateErr: session.ErrInvalidRefreshToken}
	svc := buildTestService(t, user, mgr, newStubHolder())

	token, err := pkgauth.MintAccessToken(testJWTConfig(), time.Now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		JTI:    "jti-old",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	_, err = svc.Refresh(context.Background(), RefreshRequest{AccessToken: token, RefreshToken: "stolen"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
