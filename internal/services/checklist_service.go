package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrChecklistFinalized is returned when a mutation targets a checklist whose
// session has already reached a terminal state. Finalized checklists are
// history; corrections start a new draft revision.
var ErrChecklistFinalized = errors.New("checklist is finalized")

// FinalizeBlockedError carries the enumerated blocking reasons when a
// finalize attempt fails its completion check.
type FinalizeBlockedError struct {
	Reasons []BlockReason
}

func (e *FinalizeBlockedError) Error() string {
	parts := make([]string, 0, len(e.Reasons))
	for _, r := range e.Reasons {
		parts = append(parts, string(r))
	}
	return fmt.Sprintf("finalize blocked: %s", strings.Join(parts, ", "))
}

// ChecklistStore abstracts persistence operations required by ChecklistService.
type ChecklistStore interface {
	GetTemplate(id string) (*Template, error)
	ListInspectionQuestions(templateID string) ([]*InspectionQuestion, error)
	ListCustomerQuestions(templateID string) ([]*CustomerQuestion, error)
	GetPolicy(id string) (*RentalPolicy, error)
	InsertChecklist(c *Checklist) error
	GetChecklist(id string) (*Checklist, error)
	UpdateChecklist(c *Checklist) error
	UpsertInspectionResponse(checklistID string, r *InspectionResponse) error
	UpsertCustomerResponse(checklistID string, r *CustomerResponse) error
	ListInspectionResponses(checklistID string) ([]*InspectionResponse, error)
	ListCustomerResponses(checklistID string) ([]*CustomerResponse, error)
	AddAudit(entry AuditEntry)
}

// ChecklistService hosts the checklist session workflow: drafts accumulate
// answers one field at a time with no ordering constraint, the engines derive
// results from snapshots, and finalization locks the session in. The service
// only ever reads catalog records; it never writes them.
type ChecklistService struct {
	store ChecklistStore
	now   func() time.Time
	idGen func() string
}

func NewChecklistService(store ChecklistStore) *ChecklistService {
	return &ChecklistService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: func() string { return shortID(12) },
	}
}

// StartChecklistRequest describes a new draft session.
type StartChecklistRequest struct {
	TemplateID  string
	EquipmentID string
	PolicyID    string
	HoursStart  float64
}

// StartChecklist opens a fresh draft session against a template. Customer
// checklists must reference an existing rental policy up front so the cost
// engine is never invoked without one.
func (s *ChecklistService) StartChecklist(req StartChecklistRequest) (*Checklist, error) {
	if req.EquipmentID == "" {
		return nil, NewInvalidError("equipment_id required")
	}
	tmpl, err := s.store.GetTemplate(req.TemplateID)
	if err != nil {
		return nil, err
	}
	if tmpl == nil {
		return nil, NewNotFoundError("template not found")
	}
	if tmpl.Kind == KindCustomer {
		p, err := s.store.GetPolicy(req.PolicyID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, NewInvalidError("customer checklists require a rental policy")
		}
	}
	c := &Checklist{
		ID:          s.idGen(),
		TemplateID:  tmpl.ID,
		EquipmentID: req.EquipmentID,
		Kind:        tmpl.Kind,
		Status:      StatusDraft,
		PolicyID:    req.PolicyID,
		Hours:       HoursReading{Start: req.HoursStart},
		CreatedAt:   s.now(),
	}
	if err := s.store.InsertChecklist(c); err != nil {
		return nil, err
	}
	return c, nil
}

// StartRevision opens a new draft that references a finalized checklist as
// its history. The template, equipment, and policy carry over; answers do not.
func (s *ChecklistService) StartRevision(previousID string) (*Checklist, error) {
	prev, err := s.requireChecklist(previousID)
	if err != nil {
		return nil, err
	}
	if !prev.Status.Finalized() {
		return nil, NewConflictError("only finalized checklists can be revised")
	}
	c := &Checklist{
		ID:          s.idGen(),
		TemplateID:  prev.TemplateID,
		EquipmentID: prev.EquipmentID,
		Kind:        prev.Kind,
		Status:      StatusDraft,
		PolicyID:    prev.PolicyID,
		Hours:       HoursReading{Start: prev.Hours.Start},
		PreviousID:  prev.ID,
		CreatedAt:   s.now(),
	}
	if err := s.store.InsertChecklist(c); err != nil {
		return nil, err
	}
	return c, nil
}

// RecordInspectionAnswer stores or overwrites the answer for one question.
// Passing an empty option id clears the selection.
func (s *ChecklistService) RecordInspectionAnswer(checklistID, questionID, optionID, notes string) error {
	c, err := s.requireDraft(checklistID, KindInspection)
	if err != nil {
		return err
	}
	if err := s.requireInspectionQuestion(c.TemplateID, questionID); err != nil {
		return err
	}
	return s.store.UpsertInspectionResponse(c.ID, &InspectionResponse{
		QuestionID:       questionID,
		SelectedOptionID: optionID,
		Notes:            notes,
	})
}

// HandoffSide names which half of a customer question an answer belongs to.
type HandoffSide string

const (
	SideDelivery HandoffSide = "delivery"
	SideReturn   HandoffSide = "return"
)

// RecordCustomerAnswer stores or overwrites one side of a customer question's
// answer pair, leaving the other side untouched.
func (s *ChecklistService) RecordCustomerAnswer(checklistID, questionID string, side HandoffSide, optionID, notes string) error {
	c, err := s.requireDraft(checklistID, KindCustomer)
	if err != nil {
		return err
	}
	if err := s.requireCustomerQuestion(c.TemplateID, questionID); err != nil {
		return err
	}
	merged := &CustomerResponse{QuestionID: questionID}
	existing, err := s.store.ListCustomerResponses(c.ID)
	if err != nil {
		return err
	}
	for _, r := range existing {
		if r != nil && r.QuestionID == questionID {
			copied := *r
			merged = &copied
			break
		}
	}
	switch side {
	case SideDelivery:
		merged.DeliveryOptionID = optionID
		merged.DeliveryNotes = notes
	case SideReturn:
		merged.ReturnOptionID = optionID
		merged.ReturnNotes = notes
	default:
		return NewInvalidError("side must be delivery or return")
	}
	return s.store.UpsertCustomerResponse(c.ID, merged)
}

// SetHours records the usage-hours meter readings. Readings are stored as
// given, even when end < start; the cost engine flags invalid pairs and the
// completion check blocks on them.
func (s *ChecklistService) SetHours(checklistID string, start float64, end *float64) error {
	c, err := s.requireChecklistDraft(checklistID)
	if err != nil {
		return err
	}
	c.Hours = HoursReading{Start: start, End: end}
	return s.store.UpdateChecklist(c)
}

// Evaluation runs the inspection aggregation engine over a snapshot of the
// checklist's catalog and responses.
func (s *ChecklistService) Evaluation(checklistID string) (*EvaluationResult, error) {
	c, err := s.requireChecklist(checklistID)
	if err != nil {
		return nil, err
	}
	if c.Kind != KindInspection {
		return nil, NewInvalidError("not an inspection checklist")
	}
	catalog, err := s.store.ListInspectionQuestions(c.TemplateID)
	if err != nil {
		return nil, err
	}
	responses, err := s.store.ListInspectionResponses(c.ID)
	if err != nil {
		return nil, err
	}
	return Evaluate(catalog, responses), nil
}

// Cost runs the cost reconciliation engine over a snapshot of the checklist's
// catalog, responses, hour readings, and rental policy.
func (s *ChecklistService) Cost(checklistID string) (*CostResult, error) {
	c, err := s.requireChecklist(checklistID)
	if err != nil {
		return nil, err
	}
	if c.Kind != KindCustomer {
		return nil, NewInvalidError("not a customer checklist")
	}
	catalog, err := s.store.ListCustomerQuestions(c.TemplateID)
	if err != nil {
		return nil, err
	}
	responses, err := s.store.ListCustomerResponses(c.ID)
	if err != nil {
		return nil, err
	}
	policy, err := s.store.GetPolicy(c.PolicyID)
	if err != nil {
		return nil, err
	}
	return Reconcile(catalog, responses, c.Hours, policy)
}

// CheckFinalize reports whether the checklist could be finalized in the given
// mode, without changing anything. The presentation layer uses this to
// enable or disable finalize actions.
func (s *ChecklistService) CheckFinalize(checklistID string, mode FinalizeMode, inspectorName string) (FinalizeDecision, error) {
	c, err := s.requireChecklist(checklistID)
	if err != nil {
		return FinalizeDecision{}, err
	}
	return s.decide(c, mode, inspectorName)
}

// Finalize locks the checklist into the terminal state for the given mode.
// The completion check runs on a fresh snapshot; a blocked finalize changes
// nothing and reports every blocking reason.
func (s *ChecklistService) Finalize(checklistID string, mode FinalizeMode, inspectorName string) (*Checklist, error) {
	c, err := s.requireChecklistDraft(checklistID)
	if err != nil {
		return nil, err
	}
	decision, err := s.decide(c, mode, inspectorName)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, &FinalizeBlockedError{Reasons: decision.BlockingReasons}
	}
	now := s.now()
	c.Status = statusForMode(mode)
	c.InspectorName = inspectorName
	c.FinalizedAt = &now
	if err := s.store.UpdateChecklist(c); err != nil {
		return nil, err
	}
	s.store.AddAudit(AuditEntry{Time: now, Actor: inspectorName, Action: "checklist_finalize", Target: c.ID, Note: string(mode)})
	return c, nil
}

func (s *ChecklistService) decide(c *Checklist, mode FinalizeMode, inspectorName string) (FinalizeDecision, error) {
	if !mode.Valid() {
		return FinalizeDecision{}, NewInvalidError("unknown finalize mode")
	}
	switch mode {
	case ModeRentalReady, ModeDamaged:
		if c.Kind != KindInspection {
			return FinalizeDecision{}, NewInvalidError("mode requires an inspection checklist")
		}
		eval, err := s.Evaluation(c.ID)
		if err != nil {
			return FinalizeDecision{}, err
		}
		return CanFinalize(mode, eval, nil, inspectorName, c.Hours), nil
	case ModeDelivery, ModeReturn:
		if c.Kind != KindCustomer {
			return FinalizeDecision{}, NewInvalidError("mode requires a customer checklist")
		}
		cost, err := s.Cost(c.ID)
		if err != nil {
			return FinalizeDecision{}, err
		}
		return CanFinalize(mode, nil, cost, inspectorName, c.Hours), nil
	}
	return FinalizeDecision{}, NewInvalidError("unknown finalize mode")
}

func statusForMode(mode FinalizeMode) ChecklistStatus {
	switch mode {
	case ModeRentalReady:
		return StatusFinalizedReady
	case ModeDamaged:
		return StatusFinalizedDamaged
	case ModeDelivery:
		return StatusFinalizedDelivery
	case ModeReturn:
		return StatusFinalizedReturn
	}
	return StatusDraft
}

func (s *ChecklistService) requireChecklist(id string) (*Checklist, error) {
	if id == "" {
		return nil, NewInvalidError("checklist id required")
	}
	c, err := s.store.GetChecklist(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, NewNotFoundError("checklist not found")
	}
	return c, nil
}

func (s *ChecklistService) requireChecklistDraft(id string) (*Checklist, error) {
	c, err := s.requireChecklist(id)
	if err != nil {
		return nil, err
	}
	if c.Status.Finalized() {
		return nil, ErrChecklistFinalized
	}
	return c, nil
}

func (s *ChecklistService) requireDraft(id string, kind ChecklistKind) (*Checklist, error) {
	c, err := s.requireChecklistDraft(id)
	if err != nil {
		return nil, err
	}
	if c.Kind != kind {
		return nil, NewInvalidError("answer kind does not match checklist kind")
	}
	return c, nil
}

func (s *ChecklistService) requireInspectionQuestion(templateID, questionID string) error {
	qs, err := s.store.ListInspectionQuestions(templateID)
	if err != nil {
		return err
	}
	for _, q := range qs {
		if q != nil && q.ID == questionID {
			return nil
		}
	}
	return NewNotFoundError("question not found in template")
}

func (s *ChecklistService) requireCustomerQuestion(templateID, questionID string) error {
	qs, err := s.store.ListCustomerQuestions(templateID)
	if err != nil {
		return err
	}
	for _, q := range qs {
		if q != nil && q.ID == questionID {
			return nil
		}
	}
	return NewNotFoundError("question not found in template")
}
