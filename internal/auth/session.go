package auth

import (
	"errors" // Sentinel errors
	"time"   // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// SessionCookie is the cookie name carrying the session JWT
const SessionCookie = "jwt"

// SessionTTL is how long an issued session stays valid
const SessionTTL = 24 * time.Hour

// ErrInvalidSession is returned for malformed, expired or tampered tokens
var ErrInvalidSession = errors.New("invalid session")

// ErrNoAddress is returned for a valid token that carries no wallet address
var ErrNoAddress = errors.New("session has no wallet address")

// SessionClaims binds a wallet address to the standard JWT claims
type SessionClaims struct {
	Address              string `json:"address"` // Custom claim for the wallet address
	jwt.RegisteredClaims        // Standard JWT claims
}

// SessionManager issues and verifies the signed session tokens that prove a
// login already verified by the wallet-auth service. It never touches wallet
// signatures itself.
type SessionManager struct {
	secret []byte // HS256 signing secret
	issuer string // Issuer claim, set to the auth domain
}

// NewSessionManager creates a SessionManager for the given secret and domain
func NewSessionManager(secret, domain string) *SessionManager {
	return &SessionManager{secret: []byte(secret), issuer: domain}
}

// Issue creates a session JWT for a verified wallet address
func (m *SessionManager) Issue(address string) (string, error) {
	// Set token claims
	claims := SessionClaims{
		Address: address, // Custom claim for the wallet address
		// Standard claims
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,                                     // Bound to the auth domain
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(SessionTTL)), // Token expiry
			IssuedAt:  jwt.NewNumericDate(time.Now()),               // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString(m.secret)                        // Sign the token with the secret
}

// Verify parses and validates a session token and returns the wallet address
// it is bound to. Any parse, signature or expiry failure maps to
// ErrInvalidSession; a valid token without an address maps to ErrNoAddress.
func (m *SessionManager) Verify(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		return m.secret, nil // Return the secret key for validation
	})
	// Check for parsing errors
	if err != nil {
		return "", ErrInvalidSession
	}
	claims, ok := token.Claims.(*SessionClaims)
	// Validate token and extract claims
	if !ok || !token.Valid {
		return "", ErrInvalidSession
	}
	// A session without an address cannot be gated against the ledger
	if claims.Address == "" {
		return "", ErrNoAddress
	}
	return claims.Address, nil // Verified wallet address
}
