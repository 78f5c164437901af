package api

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"token_dashboard/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBalances returns the token id as the balance so order is observable
type fakeBalances struct {
	gotIDs []int64
}

func (f *fakeBalances) Balances(ctx context.Context, address string, tokenIDs ...int64) ([]*big.Int, error) {
	f.gotIDs = tokenIDs
	out := make([]*big.Int, len(tokenIDs))
	for i, id := range tokenIDs {
		out[i] = big.NewInt(id)
	}
	return out, nil
}

func TestBalancesDumpsAllThreeRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sessions := auth.NewSessionManager("test-secret", "dash.example.org")
	reader := &fakeBalances{}
	r := gin.New()
	r.GET("/api/debug/balances", BalancesHandler(sessions, reader))

	token, err := sessions.Issue(testAddress)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/debug/balances?projectId=2", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// One token id per role, in role-ordinal order
	assert.Equal(t, []int64{201, 202, 203}, reader.gotIDs)

	var body struct {
		Balances map[string]string `json:"balances"`
		Address  string            `json:"address"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, testAddress, body.Address)
	assert.Equal(t, "201", body.Balances["investor"])
	assert.Equal(t, "202", body.Balances["donor"])
	assert.Equal(t, "203", body.Balances["ops"])
}

func TestBalancesRequiresSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sessions := auth.NewSessionManager("test-secret", "dash.example.org")
	reader := &fakeBalances{}
	r := gin.New()
	r.GET("/api/debug/balances", BalancesHandler(sessions, reader))

	req := httptest.NewRequest(http.MethodGet, "/api/debug/balances", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, reader.gotIDs, "no ledger calls without a session")
}
