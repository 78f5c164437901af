package api

import (
	"context"  // Batch balance reads
	"math/big" // Token balances
	"net/http" // HTTP status codes
	"strconv"  // Query param parsing

	"token_dashboard/internal/auth"      // Session cookie and verification
	"token_dashboard/internal/config"    // Config presence report
	"token_dashboard/internal/dashboard" // Shared wire codes
	"token_dashboard/internal/roles"     // Role token ids

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// BalanceReader is the batch balance surface the debug endpoint needs
type BalanceReader interface {
	Balances(ctx context.Context, address string, tokenIDs ...int64) ([]*big.Int, error)
}

// PingHandler reports cookie and config presence without leaking secrets
func PingHandler(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(auth.SessionCookie) // Read the session cookie
		c.JSON(http.StatusOK, gin.H{
			"ok": true,
			"cookies": gin.H{
				"jwt": token != "", // Presence only, never the value
			},
			"config": gin.H{
				"authDomain":     cfg.AuthDomain,          // Not a secret
				"chainId":        cfg.ChainID,             // Not a secret
				"accessContract": cfg.AccessContract != "", // Presence only
				"authService":    cfg.AuthServiceURL != "", // Presence only
				"chainRpc":       cfg.ChainRPCURL != "",    // Presence only
			},
		})
	}
}

// BalancesHandler dumps the session wallet's balance at every role token of
// one project. Requires a valid session; meant for gate troubleshooting.
func BalancesHandler(sessions *auth.SessionManager, reader BalanceReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Auth cookie
		token, _ := c.Cookie(auth.SessionCookie)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": dashboard.CodeNotLoggedIn})
			return
		}
		address, err := sessions.Verify(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": dashboard.CodeInvalidSession})
			return
		}
		// Project defaults to 1 for quick manual checks
		projectID, err := strconv.ParseInt(c.DefaultQuery("projectId", "1"), 10, 64)
		if err != nil || projectID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": dashboard.CodeBadProjectID})
			return
		}
		// Token ids for all three roles; projectID is already positive
		investorID, _ := roles.TokenID(projectID, roles.Investor)
		donorID, _ := roles.TokenID(projectID, roles.Donor)
		opsID, _ := roles.TokenID(projectID, roles.Ops)
		balances, err := reader.Balances(c.Request.Context(), address, investorID, donorID, opsID)
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"project_id": projectID,   // Requested project
				"address":    address,     // Session wallet
				"error":      err.Error(), // Error message
			}).Error("Balance dump failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": dashboard.CodeServerError})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"ok":        true,
			"projectId": projectID, // Checked project
			"address":   address,   // Session wallet
			"balances": gin.H{
				"investor": balances[0].String(), // Stringified, balances can exceed int64
				"donor":    balances[1].String(),
				"ops":      balances[2].String(),
			},
		})
	}
}
