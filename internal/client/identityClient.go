package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"garments-store/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid identity token")

// Identity is what the identity provider vouches for.
type Identity struct {
	Subject string
	Email   string
}

type IdentityClient interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

type identityClaims struct {
	Email         string `json:"email"`
	EmailVerified *bool  `json:"email_verified,omitempty"`
	jwt.RegisteredClaims
}

type identityClientImpl struct {
	secret []byte
	parser *jwt.Parser
}

func NewIdentityClient(cfg *config.Auth) IdentityClient {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}

	return &identityClientImpl{
		secret: []byte(cfg.JWTSecret),
		parser: jwt.NewParser(opts...),
	}
}

func (c *identityClientImpl) Verify(ctx context.Context, token string) (*Identity, error) {
	if len(c.secret) == 0 {
		return nil, fmt.Errorf("%w: verifier has no key configured", ErrInvalidToken)
	}

	var claims identityClaims
	_, err := c.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.Email == "" {
		return nil, fmt.Errorf("%w: missing email claim", ErrInvalidToken)
	}
	if claims.EmailVerified != nil && !*claims.EmailVerified {
		return nil, fmt.Errorf("%w: email not verified", ErrInvalidToken)
	}

	return &Identity{
		Subject: claims.Subject,
		Email:   strings.ToLower(claims.Email),
	}, nil
}
