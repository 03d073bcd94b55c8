package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Validation failure reasons. These are ordinary outcomes, not crashes;
// handlers translate them into a structured denial.
var (
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenSignature = errors.New("token signature is invalid")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenIssuer    = errors.New("token issuer mismatch")
	ErrTokenAudience  = errors.New("token audience mismatch")
)

// Claims defines the JWT claims structure.
type Claims struct {
	Role      string `json:"usertype"`
	FirstName string `json:"firstname,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies session tokens with a fixed RS256
// keypair. Verification only needs the public half, so components that
// never hold signing material can still validate.
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	issuer     string
	audience   string
	defaultTTL time.Duration
}

// NewTokenService loads and parses the keypair from the given source.
func NewTokenService(src KeySource, issuer, audience string, defaultTTL time.Duration) (*TokenService, error) {
	privPEM, err := src.PrivateKeyPEM()
	if err != nil {
		return nil, err
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privPEM)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}

	pubPEM, err := src.PublicKeyPEM()
	if err != nil {
		return nil, err
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}

	return &TokenService{
		privateKey: privateKey,
		publicKey:  publicKey,
		issuer:     issuer,
		audience:   audience,
		defaultTTL: defaultTTL,
	}, nil
}

// NewTokenServiceFromKeys builds a service from an already-parsed private
// key. Used by tests and tooling that generate throwaway keypairs.
func NewTokenServiceFromKeys(privateKey *rsa.PrivateKey, issuer, audience string, defaultTTL time.Duration) *TokenService {
	return &TokenService{
		privateKey: privateKey,
		publicKey:  &privateKey.PublicKey,
		issuer:     issuer,
		audience:   audience,
		defaultTTL: defaultTTL,
	}
}

// DefaultTTL returns the configured token lifetime.
func (s *TokenService) DefaultTTL() time.Duration {
	return s.defaultTTL
}

// Issue creates a new signed token for a user. A ttl of zero uses the
// configured default. Claims are immutable once issued; a later login
// produces a brand-new token rather than mutating an old one.
func (s *TokenService) Issue(username, role string, ttl time.Duration, firstName string) (string, error) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	now := time.Now()
	claims := &Claims{
		Role:      role,
		FirstName: firstName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(s.privateKey)
}

// Validate parses and verifies a token string: signature first, then
// expiry, then issuer and audience. Any failure returns one of the reason
// errors above; the zero claims are never returned alongside a nil error.
func (s *TokenService) Validate(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return s.publicKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return nil, ErrTokenIssuer
		case errors.Is(err, jwt.ErrTokenInvalidAudience):
			return nil, ErrTokenAudience
		default:
			return nil, ErrTokenMalformed
		}
	}
	if !token.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
