package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mobiledorms/mobiledorms-api/internal/app"
	"github.com/mobiledorms/mobiledorms-api/internal/auth"
	"github.com/mobiledorms/mobiledorms-api/internal/config"
	"github.com/mobiledorms/mobiledorms-api/internal/db"
	"github.com/mobiledorms/mobiledorms-api/internal/models"
	"github.com/mobiledorms/mobiledorms-api/internal/ratelimit"
	"github.com/mobiledorms/mobiledorms-api/internal/settings"
	"gorm.io/gorm"
)

const (
	testAdminKey  = "test-admin-key"
	testJWTSecret = "test-jwt-secret"
)

// envelope mirrors the wire wrapper for decoding responses in tests.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
}

type testEnv struct {
	t      *testing.T
	router *gin.Engine
	conn   *gorm.DB
}

// newTestEnv builds a full router against a fresh sqlite database. The
// rate limit is set high enough to stay out of the way.
func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWithLimit(t, 10000)
}

func newTestEnvWithLimit(t *testing.T, maxRequests int) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	settings.ResetSnapshot()
	t.Cleanup(settings.ResetSnapshot)

	conn, err := db.Open("file:" + filepath.Join(t.TempDir(), "mobiledorms-test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	authSvc := auth.NewService(conn, config.AuthConfig{
		AdminAPIKey: testAdminKey,
		JWTSecret:   testJWTSecret,
		JWTExpiry:   time.Hour,
	})
	rateCfg := config.RateLimitConfig{MaxRequests: maxRequests, Window: time.Minute}
	limiter := ratelimit.NewManager(ratelimit.NewSettingsProvider(rateCfg), nil, nil)

	return &testEnv{
		t:      t,
		router: app.NewRouter(conn, authSvc, limiter),
		conn:   conn,
	}
}

// do performs a request against the router and decodes the envelope.
func (e *testEnv) do(method, path string, body any, headers map[string]string) (int, envelope) {
	e.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, errMarshal := json.Marshal(body)
		if errMarshal != nil {
			e.t.Fatalf("marshal body: %v", errMarshal)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	r := httptest.NewRequest(method, path, reader)
	r.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		r.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, r)

	var env envelope
	if len(w.Body.Bytes()) > 0 {
		if errDecode := json.Unmarshal(w.Body.Bytes(), &env); errDecode != nil {
			e.t.Fatalf("decode envelope from %s %s: %v (body %s)", method, path, errDecode, w.Body.String())
		}
	}
	return w.Code, env
}

func adminHeaders() map[string]string {
	return map[string]string{auth.APIKeyHeader: testAdminKey}
}

// seedUser inserts an account directly and returns it.
func (e *testEnv) seedUser(email, password, role string) models.User {
	e.t.Helper()
	hashed, errHash := auth.HashPassword(password)
	if errHash != nil {
		e.t.Fatalf("hash password: %v", errHash)
	}
	user := models.User{Email: email, Name: "Test User", Password: hashed, Role: role}
	if errCreate := e.conn.Create(&user).Error; errCreate != nil {
		e.t.Fatalf("seed user: %v", errCreate)
	}
	return user
}

// login performs the login endpoint flow and returns the bearer token.
func (e *testEnv) login(email, password string) string {
	e.t.Helper()
	status, env := e.do("POST", "/api/auth/login", map[string]any{
		"email":    email,
		"password": password,
	}, nil)
	if status != 200 {
		e.t.Fatalf("login %s: status %d (%s)", email, status, env.Error)
	}
	var data struct {
		Token string `json:"token"`
	}
	if errDecode := json.Unmarshal(env.Data, &data); errDecode != nil {
		e.t.Fatalf("decode login data: %v", errDecode)
	}
	if data.Token == "" {
		e.t.Fatalf("expected login token for %s", email)
	}
	return data.Token
}

func bearerHeaders(token string) map[string]string {
	return map[string]string{auth.AuthorizationHeader: "Bearer " + token}
}

// seedBooking inserts a booking row directly.
func (e *testEnv) seedBooking(email, status string, capsuleID *string, capsules, duration int) models.Booking {
	e.t.Helper()
	booking := models.Booking{
		Name:             "Test Contact",
		Email:            email,
		Phone:            "5125550100",
		EventName:        "Test Event",
		EventDate:        time.Now().AddDate(0, 1, 0),
		Location:         "Austin, TX",
		NumberOfCapsules: capsules,
		Duration:         duration,
		Status:           status,
		CapsuleID:        capsuleID,
	}
	if errCreate := e.conn.Create(&booking).Error; errCreate != nil {
		e.t.Fatalf("seed booking: %v", errCreate)
	}
	return booking
}

// seedCapsule inserts a capsule row directly.
func (e *testEnv) seedCapsule(name string, pricePerNight float64) models.Capsule {
	e.t.Helper()
	capsule := models.Capsule{
		Name:          name,
		Location:      "Austin, TX",
		Capacity:      8,
		Status:        models.CapsuleStatusAvailable,
		PricePerNight: pricePerNight,
	}
	if errCreate := e.conn.Create(&capsule).Error; errCreate != nil {
		e.t.Fatalf("seed capsule: %v", errCreate)
	}
	return capsule
}

// futureDate returns an eventDate value safely in the future.
func futureDate() string {
	return time.Now().AddDate(0, 1, 0).Format("2006-01-02")
}

func validBookingPayload() map[string]any {
	return map[string]any{
		"name":             "Jordan Smith",
		"email":            "jordan@example.com",
		"phone":            "5125550100",
		"eventName":        "SXSW Crew Housing",
		"eventDate":        futureDate(),
		"location":         "Austin, TX",
		"numberOfCapsules": 4,
		"duration":         7,
		"message":          "Near downtown if possible.",
	}
}
