// Package auth resolves request credentials to user identities. The
// static admin API key is a documented placeholder: it maps to the single
// seeded admin account rather than per-key identities.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mobiledorms/mobiledorms-api/internal/apperr"
	"github.com/mobiledorms/mobiledorms-api/internal/config"
	"github.com/mobiledorms/mobiledorms-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Header names carrying credentials.
const (
	// APIKeyHeader carries the shared admin API key.
	APIKeyHeader = "x-api-key"
	// AuthorizationHeader carries a bearer token.
	AuthorizationHeader = "Authorization"
)

// Absence reasons surfaced to callers.
const (
	ReasonNoToken       = "No authorization token provided"
	ReasonInvalid       = "Invalid authentication"
	ReasonAdminRequired = "Admin access required"
)

// Identity is a resolved request identity.
type Identity struct {
	ID    string `json:"id"`    // User ID.
	Email string `json:"email"` // Email address.
	Name  string `json:"name"`  // Display name.
	Role  string `json:"role"`  // Account role.
}

// Service verifies credentials and issues login tokens.
type Service struct {
	db  *gorm.DB          // Database handle for identity lookups.
	cfg config.AuthConfig // Key and token settings.
}

// NewService constructs an auth service.
func NewService(db *gorm.DB, cfg config.AuthConfig) *Service {
	return &Service{db: db, cfg: cfg}
}

// tokenClaims are the JWT claims carried by issued login tokens.
type tokenClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// Verify resolves the request credentials to an identity. A bearer token
// is checked first, then the admin API key.
func (s *Service) Verify(ctx context.Context, r *http.Request) (*Identity, error) {
	if r == nil {
		return nil, apperr.Unauthorized(ReasonNoToken)
	}

	bearer := bearerToken(r)
	apiKey := strings.TrimSpace(r.Header.Get(APIKeyHeader))
	if bearer == "" && apiKey == "" {
		return nil, apperr.Unauthorized(ReasonNoToken)
	}

	if bearer != "" {
		if identity, errVerify := s.verifyBearer(ctx, bearer); errVerify == nil {
			return identity, nil
		}
	}
	if apiKey != "" {
		if identity, errVerify := s.verifyAPIKey(ctx, apiKey); errVerify == nil {
			return identity, nil
		}
	}
	return nil, apperr.Unauthorized(ReasonInvalid)
}

// Require verifies credentials and enforces a role when requested.
func (s *Service) Require(ctx context.Context, r *http.Request, role string) (*Identity, error) {
	identity, errVerify := s.Verify(ctx, r)
	if errVerify != nil {
		return nil, errVerify
	}
	if role == models.RoleAdmin && identity.Role != models.RoleAdmin {
		return nil, apperr.Forbidden(ReasonAdminRequired)
	}
	return identity, nil
}

// verifyBearer parses a login token and resolves its subject.
func (s *Service) verifyBearer(ctx context.Context, token string) (*Identity, error) {
	secret := strings.TrimSpace(s.cfg.JWTSecret)
	if secret == "" {
		return nil, apperr.Unauthorized(ReasonInvalid)
	}
	claims := &tokenClaims{}
	parsed, errParse := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if errParse != nil || !parsed.Valid || claims.UserID == "" {
		return nil, apperr.Unauthorized(ReasonInvalid)
	}

	var user models.User
	if errFind := s.db.WithContext(ctx).First(&user, "id = ?", claims.UserID).Error; errFind != nil {
		return nil, apperr.Unauthorized(ReasonInvalid)
	}
	return identityFor(&user), nil
}

// verifyAPIKey matches the shared admin key and resolves the admin account.
func (s *Service) verifyAPIKey(ctx context.Context, apiKey string) (*Identity, error) {
	secret := strings.TrimSpace(s.cfg.AdminAPIKey)
	if secret == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(secret)) != 1 {
		return nil, apperr.Unauthorized(ReasonInvalid)
	}
	var admin models.User
	if errFind := s.db.WithContext(ctx).Where("role = ?", models.RoleAdmin).Order("created_at ASC").First(&admin).Error; errFind != nil {
		return nil, apperr.Unauthorized(ReasonInvalid)
	}
	return identityFor(&admin), nil
}

// Login checks a password and issues a signed token for the account.
func (s *Service) Login(ctx context.Context, email, password string) (string, *Identity, error) {
	secret := strings.TrimSpace(s.cfg.JWTSecret)
	if secret == "" {
		return "", nil, errors.New("auth: jwt secret not configured")
	}

	var user models.User
	if errFind := s.db.WithContext(ctx).Where("email = ?", strings.TrimSpace(email)).First(&user).Error; errFind != nil {
		return "", nil, apperr.Unauthorized(ReasonInvalid)
	}
	if !CheckPassword(password, user.Password) {
		return "", nil, apperr.Unauthorized(ReasonInvalid)
	}

	now := time.Now().UTC()
	claims := tokenClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
	}
	token, errSign := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if errSign != nil {
		return "", nil, errSign
	}
	return token, identityFor(&user), nil
}

// bearerToken extracts a bearer token from the Authorization header.
func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get(AuthorizationHeader))
	if header == "" {
		return ""
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header {
		return ""
	}
	return strings.TrimSpace(token)
}

// identityFor maps a user row to an identity.
func identityFor(user *models.User) *Identity {
	return &Identity{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hashed, errHash := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errHash != nil {
		return "", errHash
	}
	return string(hashed), nil
}

// CheckPassword reports whether a plaintext password matches a bcrypt hash.
func CheckPassword(password, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
