package service

import (
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/IBA-HOK/user-attendance-record/internal/config"
)

func testAuthService() *AuthService {
	return NewAuthService(&config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: 4, // minimum cost keeps the test fast
	}, nil)
}

func signTestToken(t *testing.T, secret string, method jwt.SigningMethod, expiry time.Duration) string {
	t.Helper()

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "test-jti",
			Subject:   strconv.Itoa(42),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
		AdminID:     42,
		RoleID:      1,
		Permissions: []string{"view_users"},
	}
	signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestValidateToken(t *testing.T) {
	svc := testAuthService()

	token := signTestToken(t, "test-secret", jwt.SigningMethodHS256, time.Hour)
	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken error: %v", err)
	}
	if claims.AdminID != 42 || claims.RoleID != 1 {
		t.Errorf("claims = admin %d role %d, want 42/1", claims.AdminID, claims.RoleID)
	}
	if claims.ID != "test-jti" {
		t.Errorf("jti = %q, want test-jti", claims.ID)
	}
	if len(claims.Permissions) != 1 || claims.Permissions[0] != "view_users" {
		t.Errorf("permissions = %v", claims.Permissions)
	}
}

func TestValidateTokenRejectsBadTokens(t *testing.T) {
	svc := testAuthService()

	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", signTestToken(t, "other-secret", jwt.SigningMethodHS256, time.Hour)},
		{"expired", signTestToken(t, "test-secret", jwt.SigningMethodHS256, -time.Minute)},
		{"garbage", "not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.ValidateToken(tt.token); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	svc := testAuthService()

	hash, err := svc.HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if err := svc.CheckPassword(hash, "correct horse"); err != nil {
		t.Errorf("CheckPassword rejected correct password: %v", err)
	}
	if err := svc.CheckPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("CheckPassword err = %v, want ErrInvalidCredentials", err)
	}
}
