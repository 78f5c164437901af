package api

import (
	"net/http" // HTTP status codes

	"token_dashboard/internal/auth"      // Session cookie name
	"token_dashboard/internal/dashboard" // Data gateway

	"github.com/gin-gonic/gin" // Gin web framework
)

// failureJSON maps a gateway failure to its wire body
func failureJSON(f *dashboard.Failure) gin.H {
	body := gin.H{"error": f.Code}
	// Forbidden carries the denial diagnostics
	if f.Code == dashboard.CodeForbidden {
		body["role"] = f.Role       // Denied role
		body["tokenId"] = f.TokenID // Composite token id as a string
	}
	return body
}

// DataHandler serves the gated dashboard fetch: session, token gate, then
// project and rows for the requested (projectId, role).
func DataHandler(gw *dashboard.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		// The session rides in the jwt cookie; absent is fine here, the
		// gateway turns it into not_logged_in after param validation
		token, _ := c.Cookie(auth.SessionCookie)
		result, failure := gw.Fetch(c.Request.Context(), c.Param("projectId"), c.Param("role"), token)
		if failure != nil {
			// Every failure is a structured response, never a crash
			c.JSON(failure.Status, failureJSON(failure))
			return
		}
		// Return project and rows
		c.JSON(http.StatusOK, gin.H{"project": result.Project, "rows": result.Rows})
	}
}

// DataByTokenHandler serves the public lookup by base token id, without a
// session or gate check. See DESIGN.md on this deliberate divergence.
func DataByTokenHandler(gw *dashboard.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, failure := gw.FetchByBaseToken(c.Request.Context(), c.Param("projectId"))
		if failure != nil {
			c.JSON(failure.Status, failureJSON(failure))
			return
		}
		// Return project and rows across all roles
		c.JSON(http.StatusOK, gin.H{"project": result.Project, "rows": result.Rows})
	}
}
