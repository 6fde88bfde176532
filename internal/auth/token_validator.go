package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/dgrijalva/jwt-go"

	"github.com/kudoshq/kudos/internal/config"
)

var ErrInvalidToken = errors.New("invalid bearer token")

// TokenValidator checks bearer token signatures against the identity
// provider's public key and extracts the subject claim.
type TokenValidator struct {
	publicKey *rsa.PublicKey
}

func NewTokenValidator(cfg config.Auth) (*TokenValidator, error) {
	if cfg.PublicKey == "" {
		return &TokenValidator{}, nil
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKey))
	if err != nil {
		return nil, fmt.Errorf("could not parse auth public key: %w", err)
	}
	return &TokenValidator{publicKey: publicKey}, nil
}

// Subject returns the subject claim of the given token. Tokens are verified
// when a public key is configured and only parsed otherwise.
func (v *TokenValidator) Subject(rawToken string) (string, error) {
	claims := &jwt.StandardClaims{}

	if v.publicKey == nil {
		if _, _, err := new(jwt.Parser).ParseUnverified(rawToken, claims); err != nil {
			return "", ErrInvalidToken
		}
	} else {
		token, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return v.publicKey, nil
		})
		if err != nil || !token.Valid {
			return "", ErrInvalidToken
		}
	}

	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
