package services

// CatalogError reports a structurally invalid catalog entry found during
// evaluation. It is aggregated into the result instead of aborting the run so
// every other item can still be resolved.
type CatalogError struct {
	QuestionID string
	Reason     string
}

// OverallCounts are the neutral completion counts derived from a set of
// responses. Deriving a user-facing readiness decision from them is the job
// of CanFinalize, not the engine.
type OverallCounts struct {
	RequiredTotal        int
	RequiredCompleted    int
	MaintenanceHoldCount int
	DamagedCount         int
	TotalItems           int
	CompletedItems       int
}

// EvaluationResult is the full output of the inspection aggregation engine.
type EvaluationResult struct {
	PerItemState  map[string]ItemState
	Counts        OverallCounts
	CatalogErrors []CatalogError
}

// Evaluate resolves a per-item state for every question in the catalog and
// rolls the states up into completion counts. It is a pure function: the
// catalog and responses are only read, and identical inputs always yield
// identical results.
//
// A response whose selected option id is not found on its question counts as
// unanswered; a stale selection never keeps its former state. Questions with
// zero answer options are reported as catalog errors since a required one can
// never be satisfied.
func Evaluate(catalog []*InspectionQuestion, responses []*InspectionResponse) *EvaluationResult {
	// Sparse response lookup: absence means unanswered, never a default
	// option. Later entries for the same question win.
	byQuestion := make(map[string]*InspectionResponse, len(responses))
	for _, r := range responses {
		if r == nil || r.QuestionID == "" {
			continue
		}
		byQuestion[r.QuestionID] = r
	}

	result := &EvaluationResult{PerItemState: make(map[string]ItemState, len(catalog))}
	for _, q := range catalog {
		if q == nil {
			continue
		}
		result.Counts.TotalItems++
		if q.Required {
			result.Counts.RequiredTotal++
		}
		if len(q.Options) == 0 {
			result.CatalogErrors = append(result.CatalogErrors, CatalogError{
				QuestionID: q.ID,
				Reason:     "question has no answer options",
			})
			result.PerItemState[q.ID] = ItemUnanswered
			continue
		}

		state := resolveItemState(q, byQuestion[q.ID])
		result.PerItemState[q.ID] = state

		switch state {
		case ItemUnanswered:
		case ItemRentalReady:
			result.Counts.CompletedItems++
		case ItemMaintenanceHold:
			result.Counts.CompletedItems++
			result.Counts.MaintenanceHoldCount++
		case ItemDamaged:
			result.Counts.CompletedItems++
			result.Counts.DamagedCount++
		}
		if q.Required && state != ItemUnanswered {
			result.Counts.RequiredCompleted++
		}
	}
	return result
}

// resolveItemState maps a single response onto the question's option catalog.
func resolveItemState(q *InspectionQuestion, r *InspectionResponse) ItemState {
	if r == nil || r.SelectedOptionID == "" {
		return ItemUnanswered
	}
	for _, opt := range q.Options {
		if opt == nil || opt.ID != r.SelectedOptionID {
			continue
		}
		switch opt.Readiness {
		case ReadinessRentalReady:
			return ItemRentalReady
		case ReadinessMaintenanceHold:
			return ItemMaintenanceHold
		case ReadinessDamaged:
			return ItemDamaged
		}
		// Unknown readiness tag on an authored option: treat like a
		// dangling reference rather than guessing a state.
		return ItemUnanswered
	}
	// Dangling reference: the catalog was edited after the response was
	// recorded.
	return ItemUnanswered
}
