package helpers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier validates a bearer credential and yields its claims. The
// JWKS-backed implementation below is the production verifier; tests inject
// their own.
type TokenVerifier interface {
	Verify(token string) (*CustomClaims, error)
}

// JWKSVerifier validates identity-provider tokens against the provider's
// published JWKS.
type JWKSVerifier struct {
	jwksURL string
}

func NewJWKSVerifier(providerURL string) *JWKSVerifier {
	return &JWKSVerifier{
		jwksURL: fmt.Sprintf("%s/auth/v1/.well-known/jwks.json", providerURL),
	}
}

func (v *JWKSVerifier) Verify(tokenStr string) (*CustomClaims, error) {
	if tokenStr == "" {
		return nil, errors.New("empty token")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	jwks, err := keyfunc.Get(v.jwksURL, keyfunc.Options{
		Ctx: ctx,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %v", err)
	}
	defer jwks.EndBackground()

	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, jwks.Keyfunc)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %v", err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}

	return claims, nil
}
