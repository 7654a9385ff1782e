package security

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/ministryofjustice/hmpps-arns-risk-actuarial-api-sub000/internal/errors"
)

const (
	// RoleRiskActuarial grants access to the scoring endpoint.
	RoleRiskActuarial = "ROLE_ARNS_RISK_ACTUARIAL"
	// RoleOffenceAdmin grants access to reference-data administration.
	RoleOffenceAdmin = "ROLE_ARNS_RISK_ACTUARIAL_ADMIN"

	principalKey = "principal"
)

// Principal is the authenticated caller.
type Principal struct {
	Subject string
	Roles   []string
}

// HasRole reports whether the caller holds role.
func (p Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

// AuthConfig holds bearer token verification settings.
type AuthConfig struct {
	HMACSecret   string // shared secret for HS256 tokens
	RSAPublicKey string // PEM public key for RS256 tokens
	Issuer       string // optional expected issuer
	Leeway       time.Duration
}

// Claims are the token claims the service reads. Roles may arrive as
// "authorities" or "roles".
type Claims struct {
	Authorities []string `json:"authorities,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator verifies bearer tokens.
type Authenticator struct {
	keyFunc jwt.Keyfunc
	opts    []jwt.ParserOption
}

// NewAuthenticator builds an Authenticator for the configured key. Exactly
// one of HMACSecret or RSAPublicKey must be set.
func NewAuthenticator(cfg AuthConfig) (*Authenticator, error) {
	var keyFunc jwt.Keyfunc
	var methods []string

	switch {
	case cfg.RSAPublicKey != "" && cfg.HMACSecret != "":
		return nil, fmt.Errorf("configure either an HMAC secret or an RSA public key, not both")
	case cfg.RSAPublicKey != "":
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.RSAPublicKey))
		if err != nil {
			return nil, fmt.Errorf("invalid RSA public key: %w", err)
		}
		keyFunc = func(*jwt.Token) (any, error) { return key, nil }
		methods = []string{jwt.SigningMethodRS256.Alg()}
	case cfg.HMACSecret != "":
		secret := []byte(cfg.HMACSecret)
		keyFunc = func(*jwt.Token) (any, error) { return secret, nil }
		methods = []string{jwt.SigningMethodHS256.Alg()}
	default:
		return nil, fmt.Errorf("no token verification key configured")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods(methods),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(cfg.Leeway),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	return &Authenticator{keyFunc: keyFunc, opts: opts}, nil
}

// Verify parses and validates a raw token.
func (a *Authenticator) Verify(raw string) (Principal, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, a.keyFunc, a.opts...)
	if err != nil {
		return Principal{}, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return Principal{}, fmt.Errorf("invalid token")
	}

	roles := append(slices.Clone(claims.Authorities), claims.Roles...)
	return Principal{Subject: claims.Subject, Roles: roles}, nil
}

// Authenticate rejects requests without a valid bearer token.
func (a *Authenticator) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			abort(c, apperrors.NewUnauthorizedError("Missing bearer token"))
			return
		}

		principal, err := a.Verify(strings.TrimSpace(raw))
		if err != nil {
			abort(c, apperrors.NewUnauthorizedError("Invalid bearer token"))
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequireRole rejects authenticated callers lacking role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			abort(c, apperrors.NewUnauthorizedError("Missing bearer token"))
			return
		}
		if !principal.HasRole(role) {
			abort(c, apperrors.NewForbiddenError(role))
			return
		}
		c.Next()
	}
}

// PrincipalFrom returns the caller set by Authenticate.
func PrincipalFrom(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

func abort(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.HTTPStatus, err)
}
