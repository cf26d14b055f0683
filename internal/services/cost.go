package services

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrPolicyMissing is returned when cost reconciliation is invoked without a
// rental period policy. Overage cannot be computed without one.
var ErrPolicyMissing = errors.New("rental period policy is required")

// CostResult is the full output of the cost reconciliation engine.
type CostResult struct {
	// ItemCharges holds the attributable charge for every question that has
	// both a delivery and a return answer. Positive means the customer owes,
	// negative is a credit.
	ItemCharges   map[string]decimal.Decimal
	TotalItemCost decimal.Decimal

	// PendingQuestionIDs lists questions with exactly one side answered.
	// They contribute zero to the total but are not "free".
	PendingQuestionIDs []string

	// RequiredMissingDelivery and RequiredMissingReturn list required
	// questions whose delivery or return side is unanswered, for the
	// validation layer's per-mode checks.
	RequiredMissingDelivery []string
	RequiredMissingReturn   []string

	HoursUsed    float64
	OverageHours float64
	OverageCost  decimal.Decimal

	GrandTotal decimal.Decimal

	// HoursInvalid is set when the end reading is present but below the
	// start reading. The engine never clamps or guesses corrected hours.
	HoursInvalid bool

	CatalogErrors []CatalogError
}

// Charge is the single place the delivery/return sign convention lives:
// charge = return value minus delivery value. A positive charge is money owed
// by the customer, a negative charge is a credit. Callers must never derive
// this difference themselves.
func Charge(delivery, ret decimal.Decimal) decimal.Decimal {
	return ret.Sub(delivery)
}

// Reconcile derives the customer charge for a handoff checklist: per-question
// charges for every fully answered delivery/return pair, the hour-overage
// charge against the rental policy, and their grand total. It is a pure
// function of its inputs.
func Reconcile(catalog []*CustomerQuestion, responses []*CustomerResponse, hours HoursReading, policy *RentalPolicy) (*CostResult, error) {
	if policy == nil {
		return nil, ErrPolicyMissing
	}

	byQuestion := make(map[string]*CustomerResponse, len(responses))
	for _, r := range responses {
		if r == nil || r.QuestionID == "" {
			continue
		}
		byQuestion[r.QuestionID] = r
	}

	result := &CostResult{
		ItemCharges:   map[string]decimal.Decimal{},
		TotalItemCost: decimal.Zero,
		OverageCost:   decimal.Zero,
	}

	for _, q := range catalog {
		if q == nil {
			continue
		}
		if len(q.DeliveryAnswers) == 0 || len(q.ReturnAnswers) == 0 {
			result.CatalogErrors = append(result.CatalogErrors, CatalogError{
				QuestionID: q.ID,
				Reason:     "question is missing delivery or return answer options",
			})
			continue
		}

		r := byQuestion[q.ID]
		deliveryOpt := findCustomerOption(q.DeliveryAnswers, selectedID(r, deliverySide))
		returnOpt := findCustomerOption(q.ReturnAnswers, selectedID(r, returnSide))

		switch {
		case deliveryOpt != nil && returnOpt != nil:
			c := Charge(deliveryOpt.Value, returnOpt.Value)
			result.ItemCharges[q.ID] = c
			result.TotalItemCost = result.TotalItemCost.Add(c)
		case deliveryOpt != nil || returnOpt != nil:
			result.PendingQuestionIDs = append(result.PendingQuestionIDs, q.ID)
		}

		if q.Required {
			if deliveryOpt == nil {
				result.RequiredMissingDelivery = append(result.RequiredMissingDelivery, q.ID)
			}
			if returnOpt == nil {
				result.RequiredMissingReturn = append(result.RequiredMissingReturn, q.ID)
			}
		}
	}

	applyOverage(result, hours, policy)
	result.GrandTotal = result.TotalItemCost.Add(result.OverageCost)
	return result, nil
}

// applyOverage computes the hour-overage charge. No end reading means the
// return has not been measured yet and overage stays zero; an end reading
// below the start is flagged, not corrected, since mis-stated usage hours
// have direct monetary consequences.
func applyOverage(result *CostResult, hours HoursReading, policy *RentalPolicy) {
	if hours.End == nil {
		return
	}
	if *hours.End < hours.Start {
		result.HoursInvalid = true
		return
	}
	result.HoursUsed = *hours.End - hours.Start
	if over := result.HoursUsed - policy.AllowedHours; over > 0 {
		result.OverageHours = over
		result.OverageCost = decimal.NewFromFloat(over).Mul(policy.OverageRatePerHour)
	}
}

type answerSide int

const (
	deliverySide answerSide = iota
	returnSide
)

func selectedID(r *CustomerResponse, side answerSide) string {
	if r == nil {
		return ""
	}
	if side == deliverySide {
		return r.DeliveryOptionID
	}
	return r.ReturnOptionID
}

// findCustomerOption resolves an option id within one answer list. A missing
// or dangling id yields nil, which callers treat as that side being
// unanswered.
func findCustomerOption(opts []*CustomerAnswerOption, id string) *CustomerAnswerOption {
	if id == "" {
		return nil
	}
	for _, opt := range opts {
		if opt != nil && opt.ID == id {
			return opt
		}
	}
	return nil
}
