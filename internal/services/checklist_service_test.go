package services

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecklistStore struct {
	templates    map[string]*Template
	inspectionQs map[string][]*InspectionQuestion
	customerQs   map[string][]*CustomerQuestion
	policies     map[string]*RentalPolicy
	checklists   map[string]*Checklist
	inspectionRs map[string]map[string]*InspectionResponse
	customerRs   map[string]map[string]*CustomerResponse
	audit        []AuditEntry
}

func newStubChecklistStore() *stubChecklistStore {
	return &stubChecklistStore{
		templates:    map[string]*Template{},
		inspectionQs: map[string][]*InspectionQuestion{},
		customerQs:   map[string][]*CustomerQuestion{},
		policies:     map[string]*RentalPolicy{},
		checklists:   map[string]*Checklist{},
		inspectionRs: map[string]map[string]*InspectionResponse{},
		customerRs:   map[string]map[string]*CustomerResponse{},
	}
}

func (s *stubChecklistStore) GetTemplate(id string) (*Template, error) { return s.templates[id], nil }
func (s *stubChecklistStore) ListInspectionQuestions(templateID string) ([]*InspectionQuestion, error) {
	return s.inspectionQs[templateID], nil
}
func (s *stubChecklistStore) ListCustomerQuestions(templateID string) ([]*CustomerQuestion, error) {
	return s.customerQs[templateID], nil
}
func (s *stubChecklistStore) GetPolicy(id string) (*RentalPolicy, error) { return s.policies[id], nil }
func (s *stubChecklistStore) InsertChecklist(c *Checklist) error {
	s.checklists[c.ID] = c
	return nil
}
func (s *stubChecklistStore) GetChecklist(id string) (*Checklist, error) {
	c := s.checklists[id]
	if c == nil {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}
func (s *stubChecklistStore) UpdateChecklist(c *Checklist) error {
	s.checklists[c.ID] = c
	return nil
}
func (s *stubChecklistStore) UpsertInspectionResponse(checklistID string, r *InspectionResponse) error {
	if s.inspectionRs[checklistID] == nil {
		s.inspectionRs[checklistID] = map[string]*InspectionResponse{}
	}
	s.inspectionRs[checklistID][r.QuestionID] = r
	return nil
}
func (s *stubChecklistStore) UpsertCustomerResponse(checklistID string, r *CustomerResponse) error {
	if s.customerRs[checklistID] == nil {
		s.customerRs[checklistID] = map[string]*CustomerResponse{}
	}
	s.customerRs[checklistID][r.QuestionID] = r
	return nil
}
func (s *stubChecklistStore) ListInspectionResponses(checklistID string) ([]*InspectionResponse, error) {
	out := make([]*InspectionResponse, 0, len(s.inspectionRs[checklistID]))
	for _, r := range s.inspectionRs[checklistID] {
		out = append(out, r)
	}
	return out, nil
}
func (s *stubChecklistStore) ListCustomerResponses(checklistID string) ([]*CustomerResponse, error) {
	out := make([]*CustomerResponse, 0, len(s.customerRs[checklistID]))
	for _, r := range s.customerRs[checklistID] {
		out = append(out, r)
	}
	return out, nil
}
func (s *stubChecklistStore) AddAudit(entry AuditEntry) { s.audit = append(s.audit, entry) }

func (s *stubChecklistStore) seedInspection() {
	s.templates["T1"] = &Template{ID: "T1", Name: "Pre-rental", Kind: KindInspection}
	s.inspectionQs["T1"] = inspectionCatalog()
	for _, q := range s.inspectionQs["T1"] {
		q.TemplateID = "T1"
	}
}

func (s *stubChecklistStore) seedCustomer() {
	s.templates["T2"] = &Template{ID: "T2", Name: "Handoff", Kind: KindCustomer}
	s.customerQs["T2"] = customerCatalog()
	for _, q := range s.customerQs["T2"] {
		q.TemplateID = "T2"
	}
	s.policies["P1"] = standardPolicy()
}

func newChecklistService(store *stubChecklistStore) *ChecklistService {
	svc := NewChecklistService(store)
	svc.now = func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }
	n := 0
	svc.idGen = func() string { n++; return []string{"CL1", "CL2", "CL3"}[n-1] }
	return svc
}

func TestInspectionChecklistLifecycle(t *testing.T) {
	store := newStubChecklistStore()
	store.seedInspection()
	svc := newChecklistService(store)

	c, err := svc.StartChecklist(StartChecklistRequest{TemplateID: "T1", EquipmentID: "EX-204"})
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, c.Status)
	assert.Equal(t, KindInspection, c.Kind)

	require.NoError(t, svc.RecordInspectionAnswer(c.ID, "Q1", "Q1A1", ""))
	require.NoError(t, svc.RecordInspectionAnswer(c.ID, "Q2", "Q2A1", ""))

	eval, err := svc.Evaluation(c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, eval.Counts.RequiredCompleted)
	assert.Equal(t, ItemRentalReady, eval.PerItemState["Q1"])

	done, err := svc.Finalize(c.ID, ModeRentalReady, "M. Reyes")
	require.NoError(t, err)
	assert.Equal(t, StatusFinalizedReady, done.Status)
	require.NotNil(t, done.FinalizedAt)
	assert.Equal(t, svc.now(), *done.FinalizedAt)
	require.Len(t, store.audit, 1)
	assert.Equal(t, "checklist_finalize", store.audit[0].Action)

	// Finalization is terminal: further mutation is refused.
	err = svc.RecordInspectionAnswer(c.ID, "Q1", "Q1A2", "")
	assert.ErrorIs(t, err, ErrChecklistFinalized)
}

func TestFinalizeBlockedReportsAllReasons(t *testing.T) {
	store := newStubChecklistStore()
	store.seedInspection()
	svc := newChecklistService(store)

	c, err := svc.StartChecklist(StartChecklistRequest{TemplateID: "T1", EquipmentID: "EX-204"})
	require.NoError(t, err)
	require.NoError(t, svc.RecordInspectionAnswer(c.ID, "Q1", "Q1A2", "hydraulic hose worn"))

	_, err = svc.Finalize(c.ID, ModeRentalReady, "")
	var blocked *FinalizeBlockedError
	require.True(t, errors.As(err, &blocked))
	assert.ElementsMatch(t, []BlockReason{ReasonInspectorMissing, ReasonRequiredIncomplete, ReasonItemsNotReady}, blocked.Reasons)

	// Nothing was committed by the refused attempt.
	got, err := svc.store.GetChecklist(c.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, got.Status)
}

func TestCustomerChecklistLifecycle(t *testing.T) {
	store := newStubChecklistStore()
	store.seedCustomer()
	svc := newChecklistService(store)

	c, err := svc.StartChecklist(StartChecklistRequest{TemplateID: "T2", EquipmentID: "EX-204", PolicyID: "P1", HoursStart: 1250})
	require.NoError(t, err)

	// Delivery leg.
	require.NoError(t, svc.RecordCustomerAnswer(c.ID, "C1", SideDelivery, "C1D1", ""))
	require.NoError(t, svc.RecordCustomerAnswer(c.ID, "C2", SideDelivery, "C2D1", ""))

	decision, err := svc.CheckFinalize(c.ID, ModeDelivery, "M. Reyes")
	require.NoError(t, err)
	assert.True(t, decision.Allowed)

	// Return leg: answers plus the end meter reading.
	require.NoError(t, svc.RecordCustomerAnswer(c.ID, "C1", SideReturn, "C1R2", "one tooth sheared off"))
	require.NoError(t, svc.RecordCustomerAnswer(c.ID, "C2", SideReturn, "C2R1", ""))
	end := 1300.0
	require.NoError(t, svc.SetHours(c.ID, 1250, &end))

	cost, err := svc.Cost(c.ID)
	require.NoError(t, err)
	assert.True(t, cost.TotalItemCost.Equal(decimal.NewFromInt(150)), "total item cost = %s", cost.TotalItemCost)
	assert.Equal(t, 10.0, cost.OverageHours)
	assert.True(t, cost.OverageCost.Equal(decimal.NewFromInt(150)), "overage cost = %s", cost.OverageCost)
	assert.True(t, cost.GrandTotal.Equal(decimal.NewFromInt(300)), "grand total = %s", cost.GrandTotal)

	done, err := svc.Finalize(c.ID, ModeReturn, "M. Reyes")
	require.NoError(t, err)
	assert.Equal(t, StatusFinalizedReturn, done.Status)
}

func TestRecordCustomerAnswerMergesSides(t *testing.T) {
	store := newStubChecklistStore()
	store.seedCustomer()
	svc := newChecklistService(store)

	c, err := svc.StartChecklist(StartChecklistRequest{TemplateID: "T2", EquipmentID: "EX-204", PolicyID: "P1"})
	require.NoError(t, err)

	require.NoError(t, svc.RecordCustomerAnswer(c.ID, "C1", SideDelivery, "C1D1", "delivered clean"))
	require.NoError(t, svc.RecordCustomerAnswer(c.ID, "C1", SideReturn, "C1R2", ""))

	r := store.customerRs[c.ID]["C1"]
	require.NotNil(t, r)
	assert.Equal(t, "C1D1", r.DeliveryOptionID)
	assert.Equal(t, "delivered clean", r.DeliveryNotes)
	assert.Equal(t, "C1R2", r.ReturnOptionID)
}

func TestStartChecklistRequiresPolicyForCustomerKind(t *testing.T) {
	store := newStubChecklistStore()
	store.seedCustomer()
	svc := newChecklistService(store)

	_, err := svc.StartChecklist(StartChecklistRequest{TemplateID: "T2", EquipmentID: "EX-204"})
	se, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, ErrorInvalid, se.Code)
}

func TestStartRevisionReferencesPrevious(t *testing.T) {
	store := newStubChecklistStore()
	store.seedInspection()
	svc := newChecklistService(store)

	c, err := svc.StartChecklist(StartChecklistRequest{TemplateID: "T1", EquipmentID: "EX-204"})
	require.NoError(t, err)

	// Draft checklists cannot be revised.
	_, err = svc.StartRevision(c.ID)
	se, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, ErrorConflict, se.Code)

	require.NoError(t, svc.RecordInspectionAnswer(c.ID, "Q1", "Q1A1", ""))
	require.NoError(t, svc.RecordInspectionAnswer(c.ID, "Q2", "Q2A1", ""))
	_, err = svc.Finalize(c.ID, ModeRentalReady, "M. Reyes")
	require.NoError(t, err)

	rev, err := svc.StartRevision(c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, rev.PreviousID)
	assert.Equal(t, StatusDraft, rev.Status)
	assert.Equal(t, c.TemplateID, rev.TemplateID)

	// Answers do not carry over into a revision.
	rs, err := store.ListInspectionResponses(rev.ID)
	require.NoError(t, err)
	assert.Empty(t, rs)
}

func TestModeMustMatchChecklistKind(t *testing.T) {
	store := newStubChecklistStore()
	store.seedInspection()
	svc := newChecklistService(store)

	c, err := svc.StartChecklist(StartChecklistRequest{TemplateID: "T1", EquipmentID: "EX-204"})
	require.NoError(t, err)

	_, err = svc.CheckFinalize(c.ID, ModeReturn, "M. Reyes")
	se, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, ErrorInvalid, se.Code)
}
