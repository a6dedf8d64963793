package querier

import (
	"context"
	"fmt"

	"branchscope/internal/analysis"
)

// Querier fetches the branch records for one (area, year) pair.
type Querier interface {
	Fetch(ctx context.Context, areaID string, year int) ([]analysis.BranchRecord, error)
}

// QueryFailure reports a failed fetch for one (area, year) pair. The
// orchestrator omits the pair and continues; the engine treats the gap as
// zero values.
type QueryFailure struct {
	AreaID string
	Year   int
	Err    error
}

// Error implements the error interface.
func (e *QueryFailure) Error() string {
	return fmt.Sprintf("query %s/%d failed: %v", e.AreaID, e.Year, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *QueryFailure) Unwrap() error {
	return e.Err
}
