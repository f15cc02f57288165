package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/mobiledorms/mobiledorms-api/internal/apperr"
	"github.com/mobiledorms/mobiledorms-api/internal/config"
	"github.com/mobiledorms/mobiledorms-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testAdminKey  = "test-admin-key"
	testJWTSecret = "test-jwt-secret"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "auth-test.db")
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := conn.AutoMigrate(&models.User{}); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	cfg := config.AuthConfig{
		AdminAPIKey: testAdminKey,
		JWTSecret:   testJWTSecret,
		JWTExpiry:   time.Hour,
	}
	return NewService(conn, cfg), conn
}

func seedUser(t *testing.T, conn *gorm.DB, email, password, role string) models.User {
	t.Helper()
	hashed, errHash := HashPassword(password)
	if errHash != nil {
		t.Fatalf("hash password: %v", errHash)
	}
	user := models.User{Email: email, Name: "Test User", Password: hashed, Role: role}
	if errCreate := conn.Create(&user).Error; errCreate != nil {
		t.Fatalf("seed user: %v", errCreate)
	}
	return user
}

func unauthorizedMessage(t *testing.T, err error) string {
	t.Helper()
	var tagged *apperr.Error
	if !errors.As(err, &tagged) {
		t.Fatalf("expected tagged error, got %T: %v", err, err)
	}
	if tagged.Kind != apperr.KindUnauthorized {
		t.Fatalf("expected KindUnauthorized, got %v", tagged.Kind)
	}
	return tagged.Message
}

func TestVerifyNoCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	r := httptest.NewRequest("GET", "/api/bookings", nil)

	_, err := svc.Verify(context.Background(), r)
	if err == nil {
		t.Fatalf("expected error for missing credentials")
	}
	if message := unauthorizedMessage(t, err); message != ReasonNoToken {
		t.Fatalf("expected %q, got %q", ReasonNoToken, message)
	}
}

func TestVerifyInvalidAPIKey(t *testing.T) {
	svc, conn := newTestService(t)
	seedUser(t, conn, "admin@mobiledorms.com", "admin123", models.RoleAdmin)

	r := httptest.NewRequest("GET", "/api/bookings", nil)
	r.Header.Set(APIKeyHeader, "wrong-key")

	_, err := svc.Verify(context.Background(), r)
	if err == nil {
		t.Fatalf("expected error for wrong api key")
	}
	if message := unauthorizedMessage(t, err); message != ReasonInvalid {
		t.Fatalf("expected %q, got %q", ReasonInvalid, message)
	}
}

func TestVerifyAPIKeyResolvesAdmin(t *testing.T) {
	svc, conn := newTestService(t)
	admin := seedUser(t, conn, "admin@mobiledorms.com", "admin123", models.RoleAdmin)

	r := httptest.NewRequest("GET", "/api/bookings", nil)
	r.Header.Set(APIKeyHeader, testAdminKey)

	identity, err := svc.Verify(context.Background(), r)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if identity.ID != admin.ID {
		t.Fatalf("expected identity %q, got %q", admin.ID, identity.ID)
	}
	if identity.Role != models.RoleAdmin {
		t.Fatalf("expected admin role, got %q", identity.Role)
	}
}

func TestVerifyGarbageBearerToken(t *testing.T) {
	svc, conn := newTestService(t)
	seedUser(t, conn, "admin@mobiledorms.com", "admin123", models.RoleAdmin)

	r := httptest.NewRequest("GET", "/api/bookings", nil)
	r.Header.Set(AuthorizationHeader, "Bearer not-a-token")

	_, err := svc.Verify(context.Background(), r)
	if err == nil {
		t.Fatalf("expected error for garbage token")
	}
	if message := unauthorizedMessage(t, err); message != ReasonInvalid {
		t.Fatalf("expected %q, got %q", ReasonInvalid, message)
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, conn := newTestService(t)
	user := seedUser(t, conn, "guest@example.com", "secret123", models.RoleUser)

	token, identity, err := svc.Login(context.Background(), "guest@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatalf("expected non-empty token")
	}
	if identity.ID != user.ID {
		t.Fatalf("expected identity %q, got %q", user.ID, identity.ID)
	}

	r := httptest.NewRequest("GET", "/api/bookings", nil)
	r.Header.Set(AuthorizationHeader, "Bearer "+token)
	verified, errVerify := svc.Verify(context.Background(), r)
	if errVerify != nil {
		t.Fatalf("verify issued token: %v", errVerify)
	}
	if verified.Email != "guest@example.com" {
		t.Fatalf("expected email %q, got %q", "guest@example.com", verified.Email)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, conn := newTestService(t)
	seedUser(t, conn, "guest@example.com", "secret123", models.RoleUser)

	_, _, err := svc.Login(context.Background(), "guest@example.com", "wrong")
	if err == nil {
		t.Fatalf("expected error for wrong password")
	}
	if message := unauthorizedMessage(t, err); message != ReasonInvalid {
		t.Fatalf("expected %q, got %q", ReasonInvalid, message)
	}
}

func TestRequireAdminRejectsUserRole(t *testing.T) {
	svc, conn := newTestService(t)
	seedUser(t, conn, "admin@mobiledorms.com", "admin123", models.RoleAdmin)
	seedUser(t, conn, "guest@example.com", "secret123", models.RoleUser)

	token, _, errLogin := svc.Login(context.Background(), "guest@example.com", "secret123")
	if errLogin != nil {
		t.Fatalf("login: %v", errLogin)
	}

	r := httptest.NewRequest("GET", "/api/stats", nil)
	r.Header.Set(AuthorizationHeader, "Bearer "+token)

	_, err := svc.Require(context.Background(), r, models.RoleAdmin)
	if err == nil {
		t.Fatalf("expected error for non-admin caller")
	}
	var tagged *apperr.Error
	if !errors.As(err, &tagged) {
		t.Fatalf("expected tagged error, got %T", err)
	}
	if tagged.Kind != apperr.KindForbidden {
		t.Fatalf("expected KindForbidden, got %v", tagged.Kind)
	}
	if tagged.Message != ReasonAdminRequired {
		t.Fatalf("expected %q, got %q", ReasonAdminRequired, tagged.Message)
	}
}

func TestRequireAdminAcceptsAPIKey(t *testing.T) {
	svc, conn := newTestService(t)
	seedUser(t, conn, "admin@mobiledorms.com", "admin123", models.RoleAdmin)

	r := httptest.NewRequest("GET", "/api/stats", nil)
	r.Header.Set(APIKeyHeader, testAdminKey)

	identity, err := svc.Require(context.Background(), r, models.RoleAdmin)
	if err != nil {
		t.Fatalf("require: %v", err)
	}
	if identity.Role != models.RoleAdmin {
		t.Fatalf("expected admin role, got %q", identity.Role)
	}
}
