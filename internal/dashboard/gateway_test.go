package dashboard

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"token_dashboard/internal/auth"
	"token_dashboard/internal/domain"
	"token_dashboard/internal/roles"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAddress = "0x1111111111111111111111111111111111111111"
	goodToken   = "good-token"
)

// fakeVerifier resolves one known token and counts calls
type fakeVerifier struct {
	err   error // Forced failure for known tokens
	calls int
}

func (f *fakeVerifier) Verify(token string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if token == goodToken {
		return testAddress, nil
	}
	return "", auth.ErrInvalidSession
}

// fakeAccess returns a fixed gate decision and counts calls
type fakeAccess struct {
	allowed bool
	err     error
	calls   int
}

func (f *fakeAccess) Check(ctx context.Context, address string, projectID int64, role roles.Role) (bool, int64, error) {
	f.calls++
	tokenID, _ := roles.TokenID(projectID, role)
	if f.err != nil {
		return false, tokenID, f.err
	}
	return f.allowed, tokenID, nil
}

// fakeStore serves one project and records the row query it receives
type fakeStore struct {
	project    *domain.Project
	rows       []domain.DashboardRow
	projectErr error
	rowsErr    error
	gotRole    string
	gotLimit   int
}

func (f *fakeStore) FindProject(ctx context.Context, id int64) (*domain.Project, error) {
	if f.projectErr != nil {
		return nil, f.projectErr
	}
	if f.project == nil || int64(f.project.ID) != id {
		return nil, ErrProjectNotFound
	}
	return f.project, nil
}

func (f *fakeStore) FindProjectByTokenID(ctx context.Context, tokenID int64) (*domain.Project, error) {
	if f.projectErr != nil {
		return nil, f.projectErr
	}
	if f.project == nil || f.project.TokenID != tokenID {
		return nil, ErrProjectNotFound
	}
	return f.project, nil
}

func (f *fakeStore) FindRows(ctx context.Context, projectID int64, role string, limit int) ([]domain.DashboardRow, error) {
	f.gotRole = role
	f.gotLimit = limit
	if f.rowsErr != nil {
		return nil, f.rowsErr
	}
	return f.rows, nil
}

// newFixture wires a gateway around fresh fakes with project 1 present
func newFixture(allowed bool) (*Gateway, *fakeVerifier, *fakeAccess, *fakeStore) {
	verifier := &fakeVerifier{}
	gate := &fakeAccess{allowed: allowed}
	store := &fakeStore{
		project: &domain.Project{ID: 1, Name: "Clean Water Program", TokenID: 100},
		rows: []domain.DashboardRow{
			{ID: 3, ProjectID: 1, Role: "donor", Key: "Impact Score", Value: `{"index":78}`, CreatedAt: 3000},
			{ID: 2, ProjectID: 1, Role: "donor", Key: "Impact Score", Value: `{"index":71}`, CreatedAt: 2000},
			{ID: 1, ProjectID: 1, Role: "donor", Key: "Impact Score", Value: `{"index":65}`, CreatedAt: 1000},
		},
	}
	return NewGateway(verifier, gate, store), verifier, gate, store
}

func TestFetchSuccess(t *testing.T) {
	gw, _, _, store := newFixture(true)

	result, failure := gw.Fetch(context.Background(), "1", "donor", goodToken)
	require.Nil(t, failure)
	require.NotNil(t, result)
	assert.Equal(t, "Clean Water Program", result.Project.Name)
	require.Len(t, result.Rows, 3)
	// Newest first
	for i := 1; i < len(result.Rows); i++ {
		assert.GreaterOrEqual(t, result.Rows[i-1].CreatedAt, result.Rows[i].CreatedAt)
	}
	// The store must be asked for the gated role, capped at the row limit
	assert.Equal(t, "donor", store.gotRole)
	assert.Equal(t, RowLimit, store.gotLimit)
}

func TestFetchBadProjectID(t *testing.T) {
	gw, verifier, gate, _ := newFixture(true)
	for _, raw := range []string{"0", "-1", "abc", "1.5", ""} {
		_, failure := gw.Fetch(context.Background(), raw, "donor", goodToken)
		require.NotNil(t, failure, "projectId=%q", raw)
		assert.Equal(t, http.StatusBadRequest, failure.Status)
		assert.Equal(t, CodeBadProjectID, failure.Code)
	}
	// Param failures never reach the collaborators
	assert.Zero(t, verifier.calls)
	assert.Zero(t, gate.calls)
}

func TestFetchBadRole(t *testing.T) {
	gw, verifier, gate, _ := newFixture(true)

	_, failure := gw.Fetch(context.Background(), "1", "admin", goodToken)
	require.NotNil(t, failure)
	assert.Equal(t, http.StatusBadRequest, failure.Status)
	assert.Equal(t, CodeBadRole, failure.Code)
	assert.Zero(t, verifier.calls)
	assert.Zero(t, gate.calls)
}

func TestFetchMissingTokenSkipsLedger(t *testing.T) {
	gw, verifier, gate, _ := newFixture(true)

	_, failure := gw.Fetch(context.Background(), "1", "donor", "")
	require.NotNil(t, failure)
	assert.Equal(t, http.StatusUnauthorized, failure.Status)
	assert.Equal(t, CodeNotLoggedIn, failure.Code)
	// Unauthenticated requests make no verifier or ledger calls
	assert.Zero(t, verifier.calls)
	assert.Zero(t, gate.calls)
}

func TestFetchInvalidSession(t *testing.T) {
	gw, _, gate, _ := newFixture(true)

	_, failure := gw.Fetch(context.Background(), "1", "donor", "expired-token")
	require.NotNil(t, failure)
	assert.Equal(t, http.StatusUnauthorized, failure.Status)
	assert.Equal(t, CodeInvalidSession, failure.Code)
	assert.Zero(t, gate.calls, "invalid session must not reach the gate")
}

func TestFetchSessionWithoutAddress(t *testing.T) {
	gw, verifier, gate, _ := newFixture(true)
	verifier.err = auth.ErrNoAddress

	_, failure := gw.Fetch(context.Background(), "1", "donor", goodToken)
	require.NotNil(t, failure)
	assert.Equal(t, http.StatusUnauthorized, failure.Status)
	assert.Equal(t, CodeNoAddress, failure.Code)
	assert.Zero(t, gate.calls)
}

func TestFetchZeroBalanceForbidden(t *testing.T) {
	gw, _, _, _ := newFixture(false)

	_, failure := gw.Fetch(context.Background(), "1", "donor", goodToken)
	require.NotNil(t, failure)
	assert.Equal(t, http.StatusForbidden, failure.Status)
	assert.Equal(t, CodeForbidden, failure.Code)
	// Denial diagnostics carry the role and the computed token id
	assert.Equal(t, "donor", failure.Role)
	assert.Equal(t, "102", failure.TokenID)
}

func TestFetchLedgerErrorIsServerError(t *testing.T) {
	gw, _, gate, _ := newFixture(false)
	gate.err = errors.New("ledger query failed: rpc endpoint returned status 502")

	_, failure := gw.Fetch(context.Background(), "1", "donor", goodToken)
	require.NotNil(t, failure)
	// An outage is never reported as forbidden
	assert.Equal(t, http.StatusInternalServerError, failure.Status)
	assert.Equal(t, CodeServerError, failure.Code)
}

func TestFetchMissingProjectWithBalance(t *testing.T) {
	gw, _, gate, _ := newFixture(true)

	_, failure := gw.Fetch(context.Background(), "9", "donor", goodToken)
	require.NotNil(t, failure)
	// Holding the token for an absent project is not_found, not forbidden
	assert.Equal(t, http.StatusNotFound, failure.Status)
	assert.Equal(t, CodeNotFoundProject, failure.Code)
	assert.Equal(t, 1, gate.calls, "the gate still ran before the lookup")
}

func TestFetchStoreErrorIsServerError(t *testing.T) {
	gw, _, _, store := newFixture(true)
	store.rowsErr = errors.New("driver: bad connection")

	_, failure := gw.Fetch(context.Background(), "1", "donor", goodToken)
	require.NotNil(t, failure)
	assert.Equal(t, http.StatusInternalServerError, failure.Status)
	assert.Equal(t, CodeServerError, failure.Code)
}

func TestFetchByBaseToken(t *testing.T) {
	gw, verifier, gate, store := newFixture(false)

	result, failure := gw.FetchByBaseToken(context.Background(), "100")
	require.Nil(t, failure)
	require.NotNil(t, result)
	assert.Equal(t, uint(1), result.Project.ID)
	// Rows across every role, still capped
	assert.Equal(t, "", store.gotRole)
	assert.Equal(t, RowLimit, store.gotLimit)
	// The public path runs no session or gate checks
	assert.Zero(t, verifier.calls)
	assert.Zero(t, gate.calls)
}

func TestFetchByBaseTokenBadAndMissing(t *testing.T) {
	gw, _, _, _ := newFixture(false)

	_, failure := gw.FetchByBaseToken(context.Background(), "nope")
	require.NotNil(t, failure)
	assert.Equal(t, CodeBadProjectID, failure.Code)

	_, failure = gw.FetchByBaseToken(context.Background(), "999")
	require.NotNil(t, failure)
	assert.Equal(t, http.StatusNotFound, failure.Status)
	assert.Equal(t, CodeNotFoundProject, failure.Code)
}
