package access

import (
	"context" // Request-scoped cancellation
	"fmt"     // Error wrapping

	"token_dashboard/internal/chain" // Ledger interface
	"token_dashboard/internal/roles" // Composite token id derivation
)

// Gate decides whether a wallet may see a (project, role) dashboard by
// checking its balance of the composite access token on the ledger.
type Gate struct {
	Ledger chain.Ledger // Read-only balance source
}

// NewGate creates a Gate over the given ledger
func NewGate(ledger chain.Ledger) *Gate {
	return &Gate{Ledger: ledger}
}

// Check computes the composite token id for (projectID, role) and queries
// the ledger for the address's balance at that id. A zero balance is a
// normal denial, not an error; ledger failures stay errors so callers never
// confuse an outage with a denial. Every call re-queries the ledger.
func (g *Gate) Check(ctx context.Context, address string, projectID int64, role roles.Role) (bool, int64, error) {
	tokenID, err := roles.TokenID(projectID, role)
	if err != nil {
		return false, 0, err // Invalid (project, role) pair
	}
	bal, err := g.Ledger.BalanceOf(ctx, address, tokenID)
	if err != nil {
		return false, tokenID, fmt.Errorf("ledger query failed: %w", err)
	}
	// Any non-zero balance grants access; there is no upper bound check
	return bal.Sign() > 0, tokenID, nil
}
