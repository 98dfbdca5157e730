package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"jokes-api/internal/model"
)

// TokenConfig is built once from the process configuration and handed to
// NewTokenService.
type TokenConfig struct {
	Secret    string
	Algorithm string
	TTL       time.Duration
}

var supportedAlgorithms = map[string]*jwt.SigningMethodHMAC{
	"HS256": jwt.SigningMethodHS256,
	"HS384": jwt.SigningMethodHS384,
	"HS512": jwt.SigningMethodHS512,
}

// IsSupportedAlgorithm reports whether alg can sign access tokens.
func IsSupportedAlgorithm(alg string) bool {
	_, ok := supportedAlgorithms[strings.ToUpper(strings.TrimSpace(alg))]
	return ok
}

type accessClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// TokenService signs and checks stateless bearer tokens. It holds no mutable
// state and is safe for concurrent use.
type TokenService struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, errors.New("token secret is required")
	}

	method, ok := supportedAlgorithms[strings.ToUpper(strings.TrimSpace(cfg.Algorithm))]
	if !ok {
		return nil, fmt.Errorf("unsupported token algorithm %q", cfg.Algorithm)
	}

	if cfg.TTL <= 0 {
		return nil, errors.New("token lifetime must be positive")
	}

	s := &TokenService{
		secret: []byte(cfg.Secret),
		method: method,
		ttl:    cfg.TTL,
	}
	s.SetClock(time.Now)
	return s, nil
}

// SetClock replaces the time source used for issuing and expiry checks.
func (s *TokenService) SetClock(now func() time.Time) {
	s.now = now
	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(now),
		jwt.WithStrictDecoding(),
	)
}

func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the given subject email and display name that
// expires after the configured lifetime.
func (s *TokenService) Issue(email string, name string) (string, error) {
	now := s.now()
	claims := accessClaims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry. The boolean is false for any
// malformed, tampered or expired token; no partial claims are returned.
func (s *TokenService) Verify(tokenString string) (model.AuthClaims, bool) {
	claims := &accessClaims{}
	parsed, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return model.AuthClaims{}, false
	}

	if strings.TrimSpace(claims.Email) == "" || claims.ExpiresAt == nil {
		return model.AuthClaims{}, false
	}

	return model.AuthClaims{
		Email:     claims.Email,
		Name:      claims.Name,
		ExpiresAt: claims.ExpiresAt.Time,
	}, true
}
