package api

import (
	"encoding/json" // Raw signed payloads stay opaque
	"errors"        // Sentinel matching
	"io"            // Request body reading
	"net/http"      // HTTP status codes

	"token_dashboard/internal/auth" // Session manager and provider client

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// PayloadRequest asks for a login payload for one wallet
type PayloadRequest struct {
	Address string `json:"address" binding:"required"` // Wallet that will sign
}

// PayloadHandler proxies login-payload generation to the wallet-auth service
func PayloadHandler(provider auth.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PayloadRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad_address"})
			return
		}
		payload, err := provider.GeneratePayload(c.Request.Context(), req.Address)
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"address": req.Address, // Requesting wallet
				"error":   err.Error(), // Error message
			}).Error("Payload generation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
			return
		}
		// Return the opaque payload for the wallet to sign
		c.JSON(http.StatusOK, gin.H{"payload": payload})
	}
}

// LoginHandler verifies a signed login payload with the wallet-auth service
// and issues the session cookie. Signature verification never happens here.
func LoginHandler(provider auth.Provider, sessions *auth.SessionManager, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		// The signed payload is forwarded verbatim to the auth service
		body, err := io.ReadAll(c.Request.Body)
		if err != nil || len(body) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad_payload"})
			return
		}
		address, err := provider.VerifyPayload(c.Request.Context(), json.RawMessage(body))
		if err != nil {
			// A rejected signature is unauthorized, an unreachable service is not
			if errors.Is(err, auth.ErrInvalidSignature) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_signature"})
				return
			}
			logrus.WithFields(logrus.Fields{
				"error": err.Error(), // Error message
			}).Error("Login verification failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
			return
		}
		// Issue the session bound to the proven address
		token, err := sessions.Issue(address)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"address": address,     // Proven wallet
				"error":   err.Error(), // Error message
			}).Error("Session issue failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
			return
		}
		// httpOnly lax cookie, like the original app
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(auth.SessionCookie, token, int(auth.SessionTTL.Seconds()), "/", "", secureCookie, true)
		c.JSON(http.StatusOK, gin.H{"address": address}) // Return the session's address
	}
}

// LogoutHandler destroys the session cookie
func LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(auth.SessionCookie, "", -1, "/", "", false, true) // Expire the cookie
		c.JSON(http.StatusOK, gin.H{"loggedIn": false})
	}
}

// StatusHandler reports whether the caller holds a valid session
func StatusHandler(sessions *auth.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(auth.SessionCookie) // Read the session cookie
		if token == "" {
			c.JSON(http.StatusOK, gin.H{"loggedIn": false})
			return
		}
		address, err := sessions.Verify(token)
		if err != nil {
			// Invalid sessions are a normal negative answer here
			c.JSON(http.StatusOK, gin.H{"loggedIn": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"loggedIn": true, "address": address})
	}
}
