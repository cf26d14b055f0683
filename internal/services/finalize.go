package services

// FinalizeMode is the terminal outcome a checklist session is being checked
// against.
type FinalizeMode string

const (
	ModeRentalReady FinalizeMode = "rental_ready"
	ModeDamaged     FinalizeMode = "damaged"
	ModeDelivery    FinalizeMode = "delivery"
	ModeReturn      FinalizeMode = "return"
)

// Valid reports whether m is a known finalize mode.
func (m FinalizeMode) Valid() bool {
	switch m {
	case ModeRentalReady, ModeDamaged, ModeDelivery, ModeReturn:
		return true
	}
	return false
}

// BlockReason enumerates why a checklist may not be finalized. The
// presentation layer renders these as a list, never as one opaque error.
type BlockReason string

const (
	ReasonRequiredIncomplete BlockReason = "RequiredIncomplete"
	ReasonItemsNotReady      BlockReason = "ItemsNotReady"
	ReasonNoDamagedItems     BlockReason = "NoDamagedItems"
	ReasonInspectorMissing   BlockReason = "InspectorMissing"
	ReasonDeliveryIncomplete BlockReason = "DeliveryIncomplete"
	ReasonReturnIncomplete   BlockReason = "ReturnIncomplete"
	ReasonHoursMissing       BlockReason = "HoursMissing"
	ReasonHoursInvalid       BlockReason = "HoursInvalid"
	ReasonCatalogInvalid     BlockReason = "CatalogInvalid"
)

// FinalizeDecision is the outcome of a completion check.
type FinalizeDecision struct {
	Allowed         bool
	BlockingReasons []BlockReason
}

// CanFinalize applies mode-specific completion policy over the neutral
// outputs of Evaluate and Reconcile. Inspection modes read eval, customer
// modes read cost; the other argument may be nil. The policy here is allowed
// to change independently of the pure counting logic in the engines.
func CanFinalize(mode FinalizeMode, eval *EvaluationResult, cost *CostResult, inspectorName string, hours HoursReading) FinalizeDecision {
	var reasons []BlockReason

	if inspectorName == "" {
		reasons = append(reasons, ReasonInspectorMissing)
	}

	switch mode {
	case ModeRentalReady:
		if eval != nil {
			if len(eval.CatalogErrors) > 0 {
				reasons = append(reasons, ReasonCatalogInvalid)
			}
			if eval.Counts.RequiredCompleted < eval.Counts.RequiredTotal {
				reasons = append(reasons, ReasonRequiredIncomplete)
			}
			if eval.Counts.MaintenanceHoldCount > 0 || eval.Counts.DamagedCount > 0 {
				reasons = append(reasons, ReasonItemsNotReady)
			}
		}
	case ModeDamaged:
		if eval != nil {
			if len(eval.CatalogErrors) > 0 {
				reasons = append(reasons, ReasonCatalogInvalid)
			}
			if eval.Counts.DamagedCount == 0 {
				reasons = append(reasons, ReasonNoDamagedItems)
			}
		}
	case ModeDelivery:
		if cost != nil {
			if len(cost.CatalogErrors) > 0 {
				reasons = append(reasons, ReasonCatalogInvalid)
			}
			if len(cost.RequiredMissingDelivery) > 0 {
				reasons = append(reasons, ReasonDeliveryIncomplete)
			}
		}
	case ModeReturn:
		if cost != nil {
			if len(cost.CatalogErrors) > 0 {
				reasons = append(reasons, ReasonCatalogInvalid)
			}
			if len(cost.RequiredMissingDelivery) > 0 {
				reasons = append(reasons, ReasonDeliveryIncomplete)
			}
			if len(cost.RequiredMissingReturn) > 0 {
				reasons = append(reasons, ReasonReturnIncomplete)
			}
		}
		if hours.End == nil {
			reasons = append(reasons, ReasonHoursMissing)
		} else if *hours.End < hours.Start {
			reasons = append(reasons, ReasonHoursInvalid)
		}
	}

	return FinalizeDecision{Allowed: len(reasons) == 0, BlockingReasons: reasons}
}
