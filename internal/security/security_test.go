package security

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-32-bytes-long!!"

func init() {
	gin.SetMode(gin.TestMode)
}

func signHS256(t *testing.T, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func validClaims(roles ...string) Claims {
	return Claims{
		Authorities: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "assessor-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func newAuthRouter(t *testing.T, auth *Authenticator) *gin.Engine {
	t.Helper()
	router := gin.New()
	router.POST("/risk-scores", auth.Authenticate(), RequireRole(RoleRiskActuarial), func(c *gin.Context) {
		p, _ := PrincipalFrom(c)
		c.String(http.StatusOK, p.Subject)
	})
	return router
}

func TestAuthenticator_HMAC(t *testing.T) {
	auth, err := NewAuthenticator(AuthConfig{HMACSecret: testSecret})
	require.NoError(t, err)
	router := newAuthRouter(t, auth)

	expired := validClaims(RoleRiskActuarial)
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	noExpiry := validClaims(RoleRiskActuarial)
	noExpiry.ExpiresAt = nil

	otherKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims(RoleRiskActuarial)).
		SignedString([]byte("another-secret-another-secret-!!"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
		{"wrong key", "Bearer " + otherKey, http.StatusUnauthorized},
		{"expired", "Bearer " + signHS256(t, expired), http.StatusUnauthorized},
		{"no expiry", "Bearer " + signHS256(t, noExpiry), http.StatusUnauthorized},
		{"missing role", "Bearer " + signHS256(t, validClaims("ROLE_OTHER")), http.StatusForbidden},
		{"authorities role", "Bearer " + signHS256(t, validClaims(RoleRiskActuarial)), http.StatusOK},
		{"roles claim", "Bearer " + signHS256(t, Claims{
			Roles:            []string{RoleRiskActuarial},
			RegisteredClaims: validClaims().RegisteredClaims,
		}), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/risk-scores", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "assessor-1", w.Body.String())
			}
		})
	}
}

func TestAuthenticator_RSA(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pub := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))

	auth, err := NewAuthenticator(AuthConfig{RSAPublicKey: pub, Issuer: "hmpps-auth"})
	require.NoError(t, err)

	claims := validClaims(RoleRiskActuarial)
	claims.Issuer = "hmpps-auth"
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)

	principal, err := auth.Verify(signed)
	require.NoError(t, err)
	assert.True(t, principal.HasRole(RoleRiskActuarial))

	claims.Issuer = "someone-else"
	wrongIssuer, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	_, err = auth.Verify(wrongIssuer)
	assert.Error(t, err)

	// An HS256 token must not verify against an RSA configuration.
	_, err = auth.Verify(signHS256(t, validClaims(RoleRiskActuarial)))
	assert.Error(t, err)
}

func TestNewAuthenticator_Config(t *testing.T) {
	_, err := NewAuthenticator(AuthConfig{})
	assert.ErrorContains(t, err, "no token verification key")

	_, err = NewAuthenticator(AuthConfig{HMACSecret: "a", RSAPublicKey: "b"})
	assert.Error(t, err)

	_, err = NewAuthenticator(AuthConfig{RSAPublicKey: "not pem"})
	assert.ErrorContains(t, err, "invalid RSA public key")
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware(true))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/swagger/index.html", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'none'")
	assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "'unsafe-inline'")
}

func TestSecurityMiddleware_RequestChecks(t *testing.T) {
	cfg := DefaultSecurityConfig()
	cfg.MaxBodyBytes = 16
	sm := NewSecurityMiddleware(cfg)

	router := gin.New()
	router.Use(sm.ValidateContentType, sm.LimitBody, sm.RequestTimeout)
	router.POST("/echo", func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		assert.True(t, ok)
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name        string
		body        string
		contentType string
		want        int
	}{
		{"json", `{"a":1}`, "application/json; charset=utf-8", http.StatusOK},
		{"text", `hello`, "text/plain", http.StatusUnsupportedMediaType},
		{"too large", `{"a":"` + strings.Repeat("x", 32) + `"}`, "application/json", http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestSecurityMiddleware_CORS(t *testing.T) {
	sm := NewSecurityMiddleware(DefaultSecurityConfig())
	router := gin.New()
	router.Use(sm.CORS())
	router.POST("/risk-scores", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/risk-scores", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/risk-scores", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
