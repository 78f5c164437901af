package dashboard

import (
	"context"  // Request-scoped cancellation
	"errors"   // Sentinel matching
	"net/http" // HTTP status codes
	"strconv"  // Param parsing and token id formatting

	"token_dashboard/internal/auth"   // Session sentinel errors
	"token_dashboard/internal/domain" // Project and row models
	"token_dashboard/internal/roles"  // Role parsing and token ids

	"github.com/sirupsen/logrus" // Logging library
)

// Wire error codes shared by the data endpoints
const (
	CodeBadProjectID    = "bad_projectId"     // projectId not a positive integer
	CodeBadRole         = "bad_role"          // role not in the fixed set
	CodeNotLoggedIn     = "not_logged_in"     // no session token supplied
	CodeInvalidSession  = "invalid_session"   // token malformed, expired or tampered
	CodeNoAddress       = "no_address"        // valid session without a wallet address
	CodeForbidden       = "forbidden"         // wallet holds no access token
	CodeNotFoundProject = "not_found_project" // project does not exist
	CodeServerError     = "server_error"      // collaborator failure, safe to retry
)

// Verifier validates a session token and returns the wallet address it binds
type Verifier interface {
	Verify(token string) (string, error)
}

// AccessChecker answers whether a wallet may see a (project, role) dashboard
type AccessChecker interface {
	Check(ctx context.Context, address string, projectID int64, role roles.Role) (bool, int64, error)
}

// Store is the read-only project/row persistence the gateway fetches from
type Store interface {
	// FindProject looks a project up by primary id; ErrProjectNotFound when absent
	FindProject(ctx context.Context, id int64) (*domain.Project, error)
	// FindProjectByTokenID looks a project up by its base token id
	FindProjectByTokenID(ctx context.Context, tokenID int64) (*domain.Project, error)
	// FindRows returns up to limit rows for (projectID, role), newest first.
	// An empty role string matches rows of every role.
	FindRows(ctx context.Context, projectID int64, role string, limit int) ([]domain.DashboardRow, error)
}

// ErrProjectNotFound is returned by Store implementations for absent projects
var ErrProjectNotFound = errors.New("project not found")

// RowLimit caps how many rows a single fetch returns
const RowLimit = 50

// Result is a successful fetch
type Result struct {
	Project *domain.Project       `json:"project"` // The project record
	Rows    []domain.DashboardRow `json:"rows"`    // Newest-first dashboard rows
}

// Failure is a terminal non-success outcome, carrying the HTTP status and
// wire code the handler should emit. Role and TokenID are set only for
// forbidden, as access-denial diagnostics.
type Failure struct {
	Status  int    // HTTP status code
	Code    string // Wire error code
	Role    string // Denied role, forbidden only
	TokenID string // Composite token id as a string, forbidden only
}

// Gateway runs the per-request guard sequence: parse params, verify the
// session, check the token gate, then fetch. Dependencies are injected so
// tests can substitute fakes.
type Gateway struct {
	Verifier Verifier      // Session verification
	Access   AccessChecker // Token-balance gate
	Store    Store         // Project/row persistence
}

// NewGateway wires a Gateway from its collaborators
func NewGateway(v Verifier, a AccessChecker, s Store) *Gateway {
	return &Gateway{Verifier: v, Access: a, Store: s}
}

// Fetch runs the state machine for a gated dashboard request. Exactly one of
// the returns is non-nil. Transitions are one-way and fail fast: no ledger
// call happens for an unauthenticated request, no store call for an
// unauthorized one. Nothing is retried here.
func (g *Gateway) Fetch(ctx context.Context, rawProjectID, rawRole, token string) (*Result, *Failure) {
	// ParseParams: projectId must be a positive integer
	projectID, err := strconv.ParseInt(rawProjectID, 10, 64)
	if err != nil || projectID <= 0 {
		return nil, &Failure{Status: http.StatusBadRequest, Code: CodeBadProjectID}
	}
	// ParseParams: role must be one of the fixed set
	role, err := roles.Parse(rawRole)
	if err != nil {
		return nil, &Failure{Status: http.StatusBadRequest, Code: CodeBadRole}
	}
	// CheckSession: a missing token never reaches the verifier
	if token == "" {
		return nil, &Failure{Status: http.StatusUnauthorized, Code: CodeNotLoggedIn}
	}
	address, err := g.Verifier.Verify(token)
	if err != nil {
		code := CodeInvalidSession
		// A valid session without an address is its own failure
		if errors.Is(err, auth.ErrNoAddress) {
			code = CodeNoAddress
		}
		return nil, &Failure{Status: http.StatusUnauthorized, Code: code}
	}
	// CheckAccess: zero balance is a clean denial, ledger trouble is not
	allowed, tokenID, err := g.Access.Check(ctx, address, projectID, role)
	if err != nil {
		// Log full detail server-side, leak only the generic code
		logrus.WithFields(logrus.Fields{
			"project_id": projectID,     // Requested project
			"role":       role.String(), // Requested role
			"address":    address,       // Verified wallet
			"error":      err.Error(),   // Error message
		}).Error("Access check failed")
		return nil, &Failure{Status: http.StatusInternalServerError, Code: CodeServerError}
	}
	if !allowed {
		// Surface the computed token id for diagnostics
		return nil, &Failure{
			Status:  http.StatusForbidden,
			Code:    CodeForbidden,
			Role:    role.String(),
			TokenID: strconv.FormatInt(tokenID, 10),
		}
	}
	// FetchProject: absence is terminal, distinct from denial
	project, err := g.Store.FindProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			return nil, &Failure{Status: http.StatusNotFound, Code: CodeNotFoundProject}
		}
		logrus.WithFields(logrus.Fields{
			"project_id": projectID,   // Requested project
			"error":      err.Error(), // Error message
		}).Error("Project lookup failed")
		return nil, &Failure{Status: http.StatusInternalServerError, Code: CodeServerError}
	}
	// FetchRows: capped at RowLimit, newest first
	rows, err := g.Store.FindRows(ctx, projectID, role.String(), RowLimit)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"project_id": projectID,     // Requested project
			"role":       role.String(), // Requested role
			"error":      err.Error(),   // Error message
		}).Error("Row fetch failed")
		return nil, &Failure{Status: http.StatusInternalServerError, Code: CodeServerError}
	}
	return &Result{Project: project, Rows: rows}, nil
}

// FetchByBaseToken serves the public lookup by base token id: no session,
// no gate, rows across every role. It shares the gated endpoint's error
// taxonomy even though the original pages diverged on that.
func (g *Gateway) FetchByBaseToken(ctx context.Context, rawTokenID string) (*Result, *Failure) {
	tokenID, err := strconv.ParseInt(rawTokenID, 10, 64)
	if err != nil || tokenID <= 0 {
		return nil, &Failure{Status: http.StatusBadRequest, Code: CodeBadProjectID}
	}
	project, err := g.Store.FindProjectByTokenID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, ErrProjectNotFound) {
			return nil, &Failure{Status: http.StatusNotFound, Code: CodeNotFoundProject}
		}
		logrus.WithFields(logrus.Fields{
			"token_id": tokenID,     // Requested base token id
			"error":    err.Error(), // Error message
		}).Error("Project lookup failed")
		return nil, &Failure{Status: http.StatusInternalServerError, Code: CodeServerError}
	}
	rows, err := g.Store.FindRows(ctx, int64(project.ID), "", RowLimit)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"project_id": project.ID,  // Resolved project
			"error":      err.Error(), // Error message
		}).Error("Row fetch failed")
		return nil, &Failure{Status: http.StatusInternalServerError, Code: CodeServerError}
	}
	return &Result{Project: project, Rows: rows}, nil
}
