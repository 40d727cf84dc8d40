package client

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTConfig configures how a demo username/password user token is signed
// and validated, mirroring the teacher's middleware.JWTConfig (same
// HS256-only, issuer/expiration defaulting behavior).
type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
	Issuer     string
}

func (c JWTConfig) withDefaults() JWTConfig {
	if c.Expiration == 0 {
		c.Expiration = time.Hour
	}
	if c.Issuer == "" {
		c.Issuer = "opcuacore"
	}
	return c
}

// UserClaims is the payload carried by a signed user token, standing in
// for an OPC UA UserNameIdentityToken once validated.
type UserClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// GenerateUserToken signs a token asserting username, for use as the
// JWTToken field of a UserToken passed to StartSession.
func GenerateUserToken(username string, cfg JWTConfig) (string, error) {
	cfg = cfg.withDefaults()
	claims := UserClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(cfg.Expiration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    cfg.Issuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.SecretKey))
}

// ValidateUserToken parses and validates tokenString, rejecting anything
// not signed with HMAC under cfg.SecretKey.
func ValidateUserToken(tokenString string, cfg JWTConfig) (*UserClaims, error) {
	cfg = cfg.withDefaults()
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.SecretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("validate user token: %w", err)
	}
	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("validate user token: invalid claims")
	}
	return claims, nil
}
