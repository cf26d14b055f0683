package services

import (
	"testing"

	"github.com/shopspring/decimal"
)

type stubTemplateStore struct {
	templates         map[string]*Template
	categories        map[string]*Category
	inspectionQs      map[string]*InspectionQuestion
	customerQs        map[string]*CustomerQuestion
	audit             []AuditEntry
	customerQsUpdated int
}

func newStubTemplateStore() *stubTemplateStore {
	return &stubTemplateStore{
		templates:    map[string]*Template{},
		categories:   map[string]*Category{},
		inspectionQs: map[string]*InspectionQuestion{},
		customerQs:   map[string]*CustomerQuestion{},
	}
}

func (s *stubTemplateStore) InsertTemplate(t *Template) error { s.templates[t.ID] = t; return nil }
func (s *stubTemplateStore) GetTemplate(id string) (*Template, error) {
	return s.templates[id], nil
}
func (s *stubTemplateStore) InsertCategory(c *Category) error { s.categories[c.ID] = c; return nil }
func (s *stubTemplateStore) GetCategory(id string) (*Category, error) {
	return s.categories[id], nil
}
func (s *stubTemplateStore) InsertInspectionQuestion(q *InspectionQuestion) error {
	s.inspectionQs[q.ID] = q
	return nil
}
func (s *stubTemplateStore) GetInspectionQuestion(id string) (*InspectionQuestion, error) {
	return s.inspectionQs[id], nil
}
func (s *stubTemplateStore) UpdateInspectionQuestion(q *InspectionQuestion) error {
	s.inspectionQs[q.ID] = q
	return nil
}
func (s *stubTemplateStore) InsertCustomerQuestion(q *CustomerQuestion) error {
	s.customerQs[q.ID] = q
	return nil
}
func (s *stubTemplateStore) GetCustomerQuestion(id string) (*CustomerQuestion, error) {
	return s.customerQs[id], nil
}
func (s *stubTemplateStore) UpdateCustomerQuestion(q *CustomerQuestion) error {
	s.customerQs[q.ID] = q
	s.customerQsUpdated++
	return nil
}
func (s *stubTemplateStore) AddAudit(entry AuditEntry) { s.audit = append(s.audit, entry) }

func newTemplateFixture(t *testing.T, store *stubTemplateStore, kind ChecklistKind) (*TemplateService, *Template) {
	t.Helper()
	svc := NewTemplateService(store)
	tmpl, err := svc.CreateTemplate("Skid Steer Handoff", kind)
	if err != nil {
		t.Fatalf("CreateTemplate returned error: %v", err)
	}
	return svc, tmpl
}

func TestCreateInspectionQuestion(t *testing.T) {
	store := newStubTemplateStore()
	svc, tmpl := newTemplateFixture(t, store, KindInspection)

	q, err := svc.CreateInspectionQuestion(&InspectionQuestion{
		TemplateID: tmpl.ID,
		Name:       "Tires",
		Required:   true,
		Options: []*AnswerOption{
			{Description: "Good tread", Readiness: ReadinessRentalReady},
			{Description: "Worn", Readiness: ReadinessMaintenanceHold},
		},
	})
	if err != nil {
		t.Fatalf("CreateInspectionQuestion returned error: %v", err)
	}
	if q.ID == "" {
		t.Fatal("question id not assigned")
	}
	for i, opt := range q.Options {
		if opt.ID == "" || opt.QuestionID != q.ID || opt.SortOrder != i {
			t.Fatalf("option %d not normalized: %+v", i, opt)
		}
	}
	if len(store.audit) != 1 || store.audit[0].Action != "question_create" {
		t.Fatalf("audit = %v, want one question_create entry", store.audit)
	}
}

func TestCreateInspectionQuestionRejectsBadInput(t *testing.T) {
	store := newStubTemplateStore()
	svc, tmpl := newTemplateFixture(t, store, KindInspection)

	cases := []struct {
		name string
		q    *InspectionQuestion
	}{
		{"no options", &InspectionQuestion{TemplateID: tmpl.ID, Name: "Empty"}},
		{"unknown readiness", &InspectionQuestion{TemplateID: tmpl.ID, Name: "Bad", Options: []*AnswerOption{
			{Description: "???", Readiness: ReadinessState("broken")},
		}}},
		{"missing template", &InspectionQuestion{TemplateID: "nope", Name: "Orphan", Options: []*AnswerOption{
			{Description: "Fine", Readiness: ReadinessRentalReady},
		}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := svc.CreateInspectionQuestion(c.q); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestCreateCustomerQuestionValidatesPairing(t *testing.T) {
	store := newStubTemplateStore()
	svc, tmpl := newTemplateFixture(t, store, KindCustomer)

	q, err := svc.CreateCustomerQuestion(&CustomerQuestion{
		TemplateID:   tmpl.ID,
		Name:         "Bucket teeth",
		DeliveryText: "Condition at delivery",
		ReturnText:   "Condition at return",
		Required:     true,
		DeliveryAnswers: []*CustomerAnswerOption{
			{ID: "D1", Description: "All present", Value: decimal.Zero},
		},
		ReturnAnswers: []*CustomerAnswerOption{
			{ID: "R1", Description: "stale text", Value: decimal.NewFromInt(150), PairedAnswerID: "D1"},
		},
		AnswerSyncMap: map[string]bool{"D1": true},
	})
	if err != nil {
		t.Fatalf("CreateCustomerQuestion returned error: %v", err)
	}

	bad := &CustomerQuestion{
		TemplateID: tmpl.ID,
		Name:       "Broken pairing",
		DeliveryAnswers: []*CustomerAnswerOption{
			{Description: "A", Value: decimal.Zero},
		},
		ReturnAnswers: []*CustomerAnswerOption{
			{Description: "B", Value: decimal.Zero, PairedAnswerID: "missing"},
		},
	}
	if _, err := svc.CreateCustomerQuestion(bad); err == nil {
		t.Fatal("dangling PairedAnswerID accepted")
	}

	negative := &CustomerQuestion{
		TemplateID: tmpl.ID,
		Name:       "Negative value",
		DeliveryAnswers: []*CustomerAnswerOption{
			{Description: "A", Value: decimal.NewFromInt(-5)},
		},
		ReturnAnswers: []*CustomerAnswerOption{
			{Description: "B", Value: decimal.Zero},
		},
	}
	if _, err := svc.CreateCustomerQuestion(negative); err == nil {
		t.Fatal("negative monetary value accepted")
	}

	_ = q
}

func TestSyncReturnDescriptions(t *testing.T) {
	store := newStubTemplateStore()
	svc, tmpl := newTemplateFixture(t, store, KindCustomer)

	q, err := svc.CreateCustomerQuestion(&CustomerQuestion{
		TemplateID: tmpl.ID,
		Name:       "Bucket teeth",
		DeliveryAnswers: []*CustomerAnswerOption{
			{ID: "D1", Description: "All present", Value: decimal.Zero},
			{ID: "D2", Description: "One missing", Value: decimal.NewFromInt(150)},
		},
		ReturnAnswers: []*CustomerAnswerOption{
			{ID: "R1", Description: "old text", Value: decimal.NewFromInt(25), PairedAnswerID: "D1"},
			{ID: "R2", Description: "independent", Value: decimal.NewFromInt(150), PairedAnswerID: "D2"},
		},
		AnswerSyncMap: map[string]bool{"D1": true},
	})
	if err != nil {
		t.Fatalf("CreateCustomerQuestion returned error: %v", err)
	}

	synced, err := svc.SyncReturnDescriptions(q.ID)
	if err != nil {
		t.Fatalf("SyncReturnDescriptions returned error: %v", err)
	}

	if got := synced.ReturnAnswers[0].Description; got != "All present" {
		t.Fatalf("synced description = %q, want %q", got, "All present")
	}
	if !synced.ReturnAnswers[0].Value.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("monetary value was synchronized: %s", synced.ReturnAnswers[0].Value)
	}
	if got := synced.ReturnAnswers[1].Description; got != "independent" {
		t.Fatalf("unsynced option rewritten to %q", got)
	}
	if store.customerQsUpdated != 1 {
		t.Fatalf("updates = %d, want 1", store.customerQsUpdated)
	}

	// A second pass has nothing to change and must not write again.
	if _, err := svc.SyncReturnDescriptions(q.ID); err != nil {
		t.Fatalf("second sync returned error: %v", err)
	}
	if store.customerQsUpdated != 1 {
		t.Fatalf("updates after no-op sync = %d, want 1", store.customerQsUpdated)
	}
}
