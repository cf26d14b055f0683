package api

type Store interface {
	AddTemplate(t *Template)
	GetTemplate(id string) *Template
	ListTemplates() []*Template

	AddCategory(c *Category)
	GetCategory(id string) *Category
	ListCategories() []*Category

	AddInspectionQuestion(q *InspectionQuestion)
	GetInspectionQuestion(id string) *InspectionQuestion
	UpdateInspectionQuestion(q *InspectionQuestion) bool
	ListInspectionQuestions(templateID string) []*InspectionQuestion

	AddCustomerQuestion(q *CustomerQuestion)
	GetCustomerQuestion(id string) *CustomerQuestion
	UpdateCustomerQuestion(q *CustomerQuestion) bool
	ListCustomerQuestions(templateID string) []*CustomerQuestion

	AddPolicy(p *RentalPolicy)
	GetPolicy(id string) *RentalPolicy
	ListPolicies() []*RentalPolicy

	AddChecklist(c *Checklist)
	GetChecklist(id string) *Checklist
	UpdateChecklist(c *Checklist) bool
	ListChecklistsByEquipment(equipmentID string) []*Checklist

	UpsertInspectionResponse(checklistID string, r *InspectionResponse)
	ListInspectionResponses(checklistID string) []*InspectionResponse

	UpsertCustomerResponse(checklistID string, r *CustomerResponse)
	ListCustomerResponses(checklistID string) []*CustomerResponse

	AddUser(u *User)
	FindUserByEmail(email string) *User

	AddAudit(e AuditEntry)
	ListAudit() []AuditEntry
}

var _ Store = (*memoryStore)(nil)
