// Package firebase verifies Firebase Authentication ID tokens without the
// Admin SDK: tokens are RS256 JWTs signed by keys published as a JWKS.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

const issuerPrefix = "https://securetoken.google.com/"

var (
	ErrMissingToken = errors.New("missing authorization token")
	ErrBadHeader    = errors.New("bad auth header")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the subset of a Firebase ID token the API relies on.
type Claims struct {
	UID           string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

type Verifier interface {
	Verify(ctx context.Context, rawToken string) (*Claims, error)
	Close()
}

type verifier struct {
	jwks     *keyfunc.JWKS
	secret   []byte
	audience string
	issuer   string
	parser   *jwt.Parser
	leeway   time.Duration
	now      func() time.Time
}

// NewJWKSVerifier fetches the signing keys from jwksURL and keeps them fresh in
// the background until Close is called.
func NewJWKSVerifier(projectID, jwksURL string, logger *zap.Logger) (Verifier, error) {
	if projectID == "" {
		return nil, errors.New("firebase project id is required")
	}
	sugar := logger.Sugar()
	jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  5 * time.Minute,
		RefreshTimeout:    10 * time.Second,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			sugar.Warnw("Failed to refresh Firebase JWKS", "url", jwksURL, "error", err)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load firebase jwks: %w", err)
	}
	sugar.Infow("Firebase token verifier ready", "project_id", projectID, "jwks_url", jwksURL)
	return &verifier{
		jwks:     jwks,
		audience: projectID,
		issuer:   issuerPrefix + projectID,
		parser:   jwt.NewParser(jwt.WithValidMethods([]string{"RS256"}), jwt.WithoutClaimsValidation()),
		leeway:   time.Minute,
		now:      time.Now,
	}, nil
}

// NewHS256Verifier accepts tokens signed with a shared secret. It exists for
// local development and tests where no Firebase project is reachable. An empty
// projectID skips the audience and issuer checks.
func NewHS256Verifier(secret []byte, projectID string) Verifier {
	v := &verifier{
		secret: secret,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}), jwt.WithoutClaimsValidation()),
		leeway: time.Minute,
		now:    time.Now,
	}
	if projectID != "" {
		v.audience = projectID
		v.issuer = issuerPrefix + projectID
	}
	return v
}

func (v *verifier) Verify(ctx context.Context, rawToken string) (*Claims, error) {
	if rawToken == "" {
		return nil, ErrMissingToken
	}
	if strings.Count(rawToken, ".") != 2 {
		return nil, ErrBadHeader
	}

	token, err := v.parser.Parse(rawToken, v.keyFunc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: invalid claims", ErrInvalidToken)
	}

	now := v.now()
	if !claims.VerifyExpiresAt(now.Unix(), true) {
		return nil, fmt.Errorf("%w: token expired", ErrInvalidToken)
	}
	skewed := now.Add(v.leeway).Unix()
	if !claims.VerifyIssuedAt(skewed, false) {
		return nil, fmt.Errorf("%w: token used before issued", ErrInvalidToken)
	}
	if authTime, ok := claims["auth_time"].(float64); ok && int64(authTime) > skewed {
		return nil, fmt.Errorf("%w: auth_time in the future", ErrInvalidToken)
	}
	if v.audience != "" && !claims.VerifyAudience(v.audience, true) {
		return nil, fmt.Errorf("%w: invalid audience", ErrInvalidToken)
	}
	if v.issuer != "" && !claims.VerifyIssuer(v.issuer, true) {
		return nil, fmt.Errorf("%w: invalid issuer", ErrInvalidToken)
	}

	sub, _ := claims["sub"].(string)
	if sub == "" || len(sub) > 128 {
		return nil, fmt.Errorf("%w: missing sub", ErrInvalidToken)
	}

	out := &Claims{UID: sub}
	out.Email, _ = claims["email"].(string)
	out.EmailVerified, _ = claims["email_verified"].(bool)
	out.Name, _ = claims["name"].(string)
	out.Picture, _ = claims["picture"].(string)
	return out, nil
}

func (v *verifier) keyFunc(t *jwt.Token) (interface{}, error) {
	if v.secret != nil {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return v.secret, nil
	}
	if v.jwks == nil {
		return nil, errors.New("jwks not configured")
	}
	return v.jwks.Keyfunc(t)
}

func (v *verifier) Close() {
	if v.jwks != nil {
		v.jwks.EndBackground()
	}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingToken
	}
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", ErrBadHeader
	}
	token := strings.TrimSpace(header[len(prefix):])
	if strings.Count(token, ".") != 2 {
		return "", ErrBadHeader
	}
	return token, nil
}
