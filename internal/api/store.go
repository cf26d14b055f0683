package api

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type Template struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type AnswerOption struct {
	ID          string `json:"id"`
	QuestionID  string `json:"question_id"`
	Description string `json:"description"`
	Readiness   string `json:"readiness"`
	SortOrder   int    `json:"sort_order"`
}

type InspectionQuestion struct {
	ID         string          `json:"id"`
	TemplateID string          `json:"template_id"`
	CategoryID string          `json:"category_id,omitempty"`
	Name       string          `json:"name"`
	Required   bool            `json:"required"`
	Options    []*AnswerOption `json:"options"`
}

type CustomerAnswerOption struct {
	ID             string          `json:"id"`
	QuestionID     string          `json:"question_id"`
	Description    string          `json:"description"`
	Value          decimal.Decimal `json:"value"`
	SortOrder      int             `json:"sort_order"`
	PairedAnswerID string          `json:"paired_answer_id,omitempty"`
}

type CustomerQuestion struct {
	ID              string                  `json:"id"`
	TemplateID      string                  `json:"template_id"`
	CategoryID      string                  `json:"category_id,omitempty"`
	Name            string                  `json:"name"`
	DeliveryText    string                  `json:"delivery_text,omitempty"`
	ReturnText      string                  `json:"return_text,omitempty"`
	Required        bool                    `json:"required"`
	DeliveryAnswers []*CustomerAnswerOption `json:"delivery_answers"`
	ReturnAnswers   []*CustomerAnswerOption `json:"return_answers"`
	AnswerSyncMap   map[string]bool         `json:"answer_sync_map,omitempty"`
}

type RentalPolicy struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	AllowedHours       float64         `json:"allowed_hours"`
	OverageRatePerHour decimal.Decimal `json:"overage_rate_per_hour"`
}

type Checklist struct {
	ID            string     `json:"id"`
	TemplateID    string     `json:"template_id"`
	EquipmentID   string     `json:"equipment_id"`
	Kind          string     `json:"kind"`
	Status        string     `json:"status"`
	PolicyID      string     `json:"policy_id,omitempty"`
	InspectorName string     `json:"inspector_name,omitempty"`
	HoursStart    float64    `json:"hours_start"`
	HoursEnd      *float64   `json:"hours_end,omitempty"`
	PreviousID    string     `json:"previous_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	FinalizedAt   *time.Time `json:"finalized_at,omitempty"`
}

type InspectionResponse struct {
	ChecklistID      string `json:"checklist_id"`
	QuestionID       string `json:"question_id"`
	SelectedOptionID string `json:"selected_option_id,omitempty"`
	Notes            string `json:"notes,omitempty"`
}

type CustomerResponse struct {
	ChecklistID      string `json:"checklist_id"`
	QuestionID       string `json:"question_id"`
	DeliveryOptionID string `json:"delivery_option_id,omitempty"`
	ReturnOptionID   string `json:"return_option_id,omitempty"`
	DeliveryNotes    string `json:"delivery_notes,omitempty"`
	ReturnNotes      string `json:"return_notes,omitempty"`
}

type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	PassHash    []byte    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

type AuditEntry struct {
	Time   time.Time `json:"time"`
	Actor  string    `json:"actor"`
	Action string    `json:"action"`
	Target string    `json:"target"`
	Note   string    `json:"note,omitempty"`
}

type memoryStore struct {
	mu                  sync.RWMutex
	templates           map[string]*Template
	categories          map[string]*Category
	inspectionQuestions map[string]*InspectionQuestion
	inspectionByTmpl    map[string][]*InspectionQuestion
	customerQuestions   map[string]*CustomerQuestion
	customerByTmpl      map[string][]*CustomerQuestion
	policies            map[string]*RentalPolicy
	checklists          map[string]*Checklist
	inspectionResponses map[string]map[string]*InspectionResponse
	customerResponses   map[string]map[string]*CustomerResponse
	usersByEmail        map[string]*User
	audit               []AuditEntry
}

// NewMemoryStore returns an in-process Store for tests and zero-config runs.
func NewMemoryStore() Store { return newMemoryStore() }

func newMemoryStore() *memoryStore {
	return &memoryStore{
		templates:           map[string]*Template{},
		categories:          map[string]*Category{},
		inspectionQuestions: map[string]*InspectionQuestion{},
		inspectionByTmpl:    map[string][]*InspectionQuestion{},
		customerQuestions:   map[string]*CustomerQuestion{},
		customerByTmpl:      map[string][]*CustomerQuestion{},
		policies:            map[string]*RentalPolicy{},
		checklists:          map[string]*Checklist{},
		inspectionResponses: map[string]map[string]*InspectionResponse{},
		customerResponses:   map[string]map[string]*CustomerResponse{},
		usersByEmail:        map[string]*User{},
	}
}

func (s *memoryStore) AddTemplate(t *Template) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[t.ID] = t
}

func (s *memoryStore) GetTemplate(id string) *Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.templates[id]
}

func (s *memoryStore) ListTemplates() []*Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Template, 0, len(s.templates))
	for _, t := range s.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memoryStore) AddCategory(c *Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = c
}

func (s *memoryStore) GetCategory(id string) *Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories[id]
}

func (s *memoryStore) ListCategories() []*Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AddInspectionQuestion is idempotent on the question id: re-adding an
// existing id replaces the entry in place, mirroring the sqlite primary key.
func (s *memoryStore) AddInspectionQuestion(q *InspectionQuestion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inspectionQuestions[q.ID] = q
	list := s.inspectionByTmpl[q.TemplateID]
	for i, item := range list {
		if item.ID == q.ID {
			list[i] = q
			return
		}
	}
	s.inspectionByTmpl[q.TemplateID] = append(list, q)
}

func (s *memoryStore) GetInspectionQuestion(id string) *InspectionQuestion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inspectionQuestions[id]
}

func (s *memoryStore) UpdateInspectionQuestion(q *InspectionQuestion) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.inspectionQuestions[q.ID]
	if old == nil {
		return false
	}
	s.inspectionQuestions[q.ID] = q
	list := s.inspectionByTmpl[q.TemplateID]
	for i, item := range list {
		if item.ID == q.ID {
			list[i] = q
			break
		}
	}
	return true
}

func (s *memoryStore) ListInspectionQuestions(templateID string) []*InspectionQuestion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*InspectionQuestion(nil), s.inspectionByTmpl[templateID]...)
}

// AddCustomerQuestion replaces in place when the id already exists, like
// AddInspectionQuestion.
func (s *memoryStore) AddCustomerQuestion(q *CustomerQuestion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customerQuestions[q.ID] = q
	list := s.customerByTmpl[q.TemplateID]
	for i, item := range list {
		if item.ID == q.ID {
			list[i] = q
			return
		}
	}
	s.customerByTmpl[q.TemplateID] = append(list, q)
}

func (s *memoryStore) GetCustomerQuestion(id string) *CustomerQuestion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.customerQuestions[id]
}

func (s *memoryStore) UpdateCustomerQuestion(q *CustomerQuestion) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.customerQuestions[q.ID]
	if old == nil {
		return false
	}
	s.customerQuestions[q.ID] = q
	list := s.customerByTmpl[q.TemplateID]
	for i, item := range list {
		if item.ID == q.ID {
			list[i] = q
			break
		}
	}
	return true
}

func (s *memoryStore) ListCustomerQuestions(templateID string) []*CustomerQuestion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*CustomerQuestion(nil), s.customerByTmpl[templateID]...)
}

func (s *memoryStore) AddPolicy(p *RentalPolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policies[p.ID] = p
}

func (s *memoryStore) GetPolicy(id string) *RentalPolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policies[id]
}

func (s *memoryStore) ListPolicies() []*RentalPolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*RentalPolicy, 0, len(s.policies))
	for _, p := range s.policies {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memoryStore) AddChecklist(c *Checklist) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checklists[c.ID] = c
}

func (s *memoryStore) GetChecklist(id string) *Checklist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.checklists[id]
}

func (s *memoryStore) UpdateChecklist(c *Checklist) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.checklists[c.ID] == nil {
		return false
	}
	s.checklists[c.ID] = c
	return true
}

func (s *memoryStore) ListChecklistsByEquipment(equipmentID string) []*Checklist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Checklist
	for _, c := range s.checklists {
		if c.EquipmentID == equipmentID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *memoryStore) UpsertInspectionResponse(checklistID string, r *InspectionResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inspectionResponses[checklistID] == nil {
		s.inspectionResponses[checklistID] = map[string]*InspectionResponse{}
	}
	r.ChecklistID = checklistID
	s.inspectionResponses[checklistID][r.QuestionID] = r
}

func (s *memoryStore) ListInspectionResponses(checklistID string) []*InspectionResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*InspectionResponse, 0, len(s.inspectionResponses[checklistID]))
	for _, r := range s.inspectionResponses[checklistID] {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out
}

func (s *memoryStore) UpsertCustomerResponse(checklistID string, r *CustomerResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.customerResponses[checklistID] == nil {
		s.customerResponses[checklistID] = map[string]*CustomerResponse{}
	}
	r.ChecklistID = checklistID
	s.customerResponses[checklistID][r.QuestionID] = r
}

func (s *memoryStore) ListCustomerResponses(checklistID string) []*CustomerResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*CustomerResponse, 0, len(s.customerResponses[checklistID]))
	for _, r := range s.customerResponses[checklistID] {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out
}

func (s *memoryStore) AddUser(u *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usersByEmail[u.Email] = u
}

func (s *memoryStore) FindUserByEmail(email string) *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usersByEmail[email]
}

func (s *memoryStore) AddAudit(e AuditEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = append(s.audit, e)
}

func (s *memoryStore) ListAudit() []AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]AuditEntry(nil), s.audit...)
}
