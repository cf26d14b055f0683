package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rentalworks/gearcheck/internal/api"
)

// SQLiteStore persists the checklist catalog and sessions in SQLite. It
// implements api.Store, so reads are best-effort: failures are logged and
// surface as missing rows, matching the in-memory store's contract.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func NewStore(db *sql.DB) (api.Store, error) {
	return NewSQLiteStore(db)
}

var _ api.Store = (*SQLiteStore)(nil)

func (s *SQLiteStore) logErr(prefix string, err error) {
	if err != nil {
		log.Printf("sqlite store: %s: %v", prefix, err)
	}
}

func boolToInt64(v bool) int64 {
	if v {
		return 1
	}
	return 0
}

func toNullString(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func toNullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func encodeSyncMap(m map[string]bool) sql.NullString {
	if len(m) == 0 {
		return sql.NullString{}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}

func decodeSyncMap(ns sql.NullString) map[string]bool {
	if !ns.Valid || strings.TrimSpace(ns.String) == "" {
		return nil
	}
	var out map[string]bool
	if err := json.Unmarshal([]byte(ns.String), &out); err != nil {
		log.Printf("sqlite store: decode sync map: %v", err)
		return nil
	}
	return out
}

func parseMoney(raw string) decimal.Decimal {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		log.Printf("sqlite store: parse money %q: %v", raw, err)
		return decimal.Zero
	}
	return d
}

// --- templates ---

func (s *SQLiteStore) AddTemplate(t *api.Template) {
	_, err := s.db.Exec(`INSERT INTO templates (id, name, kind, created_at) VALUES (?, ?, ?, ?)`,
		t.ID, t.Name, t.Kind, t.CreatedAt)
	s.logErr("AddTemplate", err)
}

func (s *SQLiteStore) GetTemplate(id string) *api.Template {
	t := &api.Template{}
	err := s.db.QueryRow(`SELECT id, name, kind, created_at FROM templates WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &t.Kind, &t.CreatedAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logErr("GetTemplate", err)
		}
		return nil
	}
	return t
}

func (s *SQLiteStore) ListTemplates() []*api.Template {
	rows, err := s.db.Query(`SELECT id, name, kind, created_at FROM templates ORDER BY created_at, id`)
	if err != nil {
		s.logErr("ListTemplates: query", err)
		return nil
	}
	defer rows.Close()
	var out []*api.Template
	for rows.Next() {
		t := &api.Template{}
		if err := rows.Scan(&t.ID, &t.Name, &t.Kind, &t.CreatedAt); err != nil {
			s.logErr("ListTemplates: scan", err)
			continue
		}
		out = append(out, t)
	}
	s.logErr("ListTemplates: rows.Err", rows.Err())
	return out
}

// --- categories ---

func (s *SQLiteStore) AddCategory(c *api.Category) {
	_, err := s.db.Exec(`INSERT INTO categories (id, name) VALUES (?, ?)`, c.ID, c.Name)
	s.logErr("AddCategory", err)
}

func (s *SQLiteStore) GetCategory(id string) *api.Category {
	c := &api.Category{}
	err := s.db.QueryRow(`SELECT id, name FROM categories WHERE id = ?`, id).Scan(&c.ID, &c.Name)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logErr("GetCategory", err)
		}
		return nil
	}
	return c
}

func (s *SQLiteStore) ListCategories() []*api.Category {
	rows, err := s.db.Query(`SELECT id, name FROM categories ORDER BY name, id`)
	if err != nil {
		s.logErr("ListCategories: query", err)
		return nil
	}
	defer rows.Close()
	var out []*api.Category
	for rows.Next() {
		c := &api.Category{}
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			s.logErr("ListCategories: scan", err)
			continue
		}
		out = append(out, c)
	}
	s.logErr("ListCategories: rows.Err", rows.Err())
	return out
}

// --- inspection questions ---

func (s *SQLiteStore) AddInspectionQuestion(q *api.InspectionQuestion) {
	_, err := s.db.Exec(`INSERT INTO inspection_questions (id, template_id, category_id, name, required) VALUES (?, ?, ?, ?, ?)`,
		q.ID, q.TemplateID, toNullString(q.CategoryID), q.Name, boolToInt64(q.Required))
	if err != nil {
		s.logErr("AddInspectionQuestion", err)
		return
	}
	s.replaceAnswerOptions(q.ID, q.Options)
}

func (s *SQLiteStore) replaceAnswerOptions(questionID string, opts []*api.AnswerOption) {
	_, err := s.db.Exec(`DELETE FROM answer_options WHERE question_id = ?`, questionID)
	s.logErr("replaceAnswerOptions: delete", err)
	for _, o := range opts {
		_, err := s.db.Exec(`INSERT INTO answer_options (id, question_id, description, readiness, sort_order) VALUES (?, ?, ?, ?, ?)`,
			o.ID, questionID, o.Description, o.Readiness, o.SortOrder)
		s.logErr("replaceAnswerOptions: insert", err)
	}
}

func (s *SQLiteStore) loadAnswerOptions(questionID string) []*api.AnswerOption {
	rows, err := s.db.Query(`SELECT id, question_id, description, readiness, sort_order FROM answer_options WHERE question_id = ? ORDER BY sort_order, id`, questionID)
	if err != nil {
		s.logErr("loadAnswerOptions: query", err)
		return nil
	}
	defer rows.Close()
	var out []*api.AnswerOption
	for rows.Next() {
		o := &api.AnswerOption{}
		if err := rows.Scan(&o.ID, &o.QuestionID, &o.Description, &o.Readiness, &o.SortOrder); err != nil {
			s.logErr("loadAnswerOptions: scan", err)
			continue
		}
		out = append(out, o)
	}
	s.logErr("loadAnswerOptions: rows.Err", rows.Err())
	return out
}

func (s *SQLiteStore) scanInspectionQuestion(row interface{ Scan(...any) error }) *api.InspectionQuestion {
	q := &api.InspectionQuestion{}
	var category sql.NullString
	var required int64
	if err := row.Scan(&q.ID, &q.TemplateID, &category, &q.Name, &required); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logErr("scanInspectionQuestion", err)
		}
		return nil
	}
	q.CategoryID = category.String
	q.Required = required != 0
	q.Options = s.loadAnswerOptions(q.ID)
	return q
}

func (s *SQLiteStore) GetInspectionQuestion(id string) *api.InspectionQuestion {
	row := s.db.QueryRow(`SELECT id, template_id, category_id, name, required FROM inspection_questions WHERE id = ?`, id)
	return s.scanInspectionQuestion(row)
}

func (s *SQLiteStore) UpdateInspectionQuestion(q *api.InspectionQuestion) bool {
	res, err := s.db.Exec(`UPDATE inspection_questions SET template_id = ?, category_id = ?, name = ?, required = ? WHERE id = ?`,
		q.TemplateID, toNullString(q.CategoryID), q.Name, boolToInt64(q.Required), q.ID)
	if err != nil {
		s.logErr("UpdateInspectionQuestion", err)
		return false
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return false
	}
	s.replaceAnswerOptions(q.ID, q.Options)
	return true
}

func (s *SQLiteStore) ListInspectionQuestions(templateID string) []*api.InspectionQuestion {
	rows, err := s.db.Query(`SELECT id, template_id, category_id, name, required FROM inspection_questions WHERE template_id = ? ORDER BY id`, templateID)
	if err != nil {
		s.logErr("ListInspectionQuestions: query", err)
		return nil
	}
	defer rows.Close()
	var out []*api.InspectionQuestion
	for rows.Next() {
		if q := s.scanInspectionQuestion(rows); q != nil {
			out = append(out, q)
		}
	}
	s.logErr("ListInspectionQuestions: rows.Err", rows.Err())
	return out
}

// --- customer questions ---

func (s *SQLiteStore) AddCustomerQuestion(q *api.CustomerQuestion) {
	_, err := s.db.Exec(`INSERT INTO customer_questions (id, template_id, category_id, name, delivery_text, return_text, required, answer_sync_map)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.TemplateID, toNullString(q.CategoryID), q.Name, toNullString(q.DeliveryText), toNullString(q.ReturnText),
		boolToInt64(q.Required), encodeSyncMap(q.AnswerSyncMap))
	if err != nil {
		s.logErr("AddCustomerQuestion", err)
		return
	}
	s.replaceCustomerOptions(q.ID, q.DeliveryAnswers, q.ReturnAnswers)
}

func (s *SQLiteStore) replaceCustomerOptions(questionID string, delivery, ret []*api.CustomerAnswerOption) {
	_, err := s.db.Exec(`DELETE FROM customer_answer_options WHERE question_id = ?`, questionID)
	s.logErr("replaceCustomerOptions: delete", err)
	insert := func(side string, opts []*api.CustomerAnswerOption) {
		for _, o := range opts {
			_, err := s.db.Exec(`INSERT INTO customer_answer_options (id, question_id, side, description, value, sort_order, paired_answer_id)
				VALUES (?, ?, ?, ?, ?, ?, ?)`,
				o.ID, questionID, side, o.Description, o.Value.String(), o.SortOrder, toNullString(o.PairedAnswerID))
			s.logErr("replaceCustomerOptions: insert", err)
		}
	}
	insert("delivery", delivery)
	insert("return", ret)
}

func (s *SQLiteStore) loadCustomerOptions(questionID string) (delivery, ret []*api.CustomerAnswerOption) {
	rows, err := s.db.Query(`SELECT id, question_id, side, description, value, sort_order, paired_answer_id
		FROM customer_answer_options WHERE question_id = ? ORDER BY sort_order, id`, questionID)
	if err != nil {
		s.logErr("loadCustomerOptions: query", err)
		return nil, nil
	}
	defer rows.Close()
	for rows.Next() {
		o := &api.CustomerAnswerOption{}
		var side, value string
		var paired sql.NullString
		if err := rows.Scan(&o.ID, &o.QuestionID, &side, &o.Description, &value, &o.SortOrder, &paired); err != nil {
			s.logErr("loadCustomerOptions: scan", err)
			continue
		}
		o.Value = parseMoney(value)
		o.PairedAnswerID = paired.String
		if side == "return" {
			ret = append(ret, o)
		} else {
			delivery = append(delivery, o)
		}
	}
	s.logErr("loadCustomerOptions: rows.Err", rows.Err())
	return delivery, ret
}

func (s *SQLiteStore) scanCustomerQuestion(row interface{ Scan(...any) error }) *api.CustomerQuestion {
	q := &api.CustomerQuestion{}
	var category, deliveryText, returnText, syncMap sql.NullString
	var required int64
	if err := row.Scan(&q.ID, &q.TemplateID, &category, &q.Name, &deliveryText, &returnText, &required, &syncMap); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logErr("scanCustomerQuestion", err)
		}
		return nil
	}
	q.CategoryID = category.String
	q.DeliveryText = deliveryText.String
	q.ReturnText = returnText.String
	q.Required = required != 0
	q.AnswerSyncMap = decodeSyncMap(syncMap)
	q.DeliveryAnswers, q.ReturnAnswers = s.loadCustomerOptions(q.ID)
	return q
}

func (s *SQLiteStore) GetCustomerQuestion(id string) *api.CustomerQuestion {
	row := s.db.QueryRow(`SELECT id, template_id, category_id, name, delivery_text, return_text, required, answer_sync_map
		FROM customer_questions WHERE id = ?`, id)
	return s.scanCustomerQuestion(row)
}

func (s *SQLiteStore) UpdateCustomerQuestion(q *api.CustomerQuestion) bool {
	res, err := s.db.Exec(`UPDATE customer_questions SET template_id = ?, category_id = ?, name = ?, delivery_text = ?, return_text = ?, required = ?, answer_sync_map = ? WHERE id = ?`,
		q.TemplateID, toNullString(q.CategoryID), q.Name, toNullString(q.DeliveryText), toNullString(q.ReturnText),
		boolToInt64(q.Required), encodeSyncMap(q.AnswerSyncMap), q.ID)
	if err != nil {
		s.logErr("UpdateCustomerQuestion", err)
		return false
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return false
	}
	s.replaceCustomerOptions(q.ID, q.DeliveryAnswers, q.ReturnAnswers)
	return true
}

func (s *SQLiteStore) ListCustomerQuestions(templateID string) []*api.CustomerQuestion {
	rows, err := s.db.Query(`SELECT id, template_id, category_id, name, delivery_text, return_text, required, answer_sync_map
		FROM customer_questions WHERE template_id = ? ORDER BY id`, templateID)
	if err != nil {
		s.logErr("ListCustomerQuestions: query", err)
		return nil
	}
	defer rows.Close()
	var out []*api.CustomerQuestion
	for rows.Next() {
		if q := s.scanCustomerQuestion(rows); q != nil {
			out = append(out, q)
		}
	}
	s.logErr("ListCustomerQuestions: rows.Err", rows.Err())
	return out
}

// --- policies ---

func (s *SQLiteStore) AddPolicy(p *api.RentalPolicy) {
	_, err := s.db.Exec(`INSERT INTO policies (id, name, allowed_hours, overage_rate_per_hour) VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, p.AllowedHours, p.OverageRatePerHour.String())
	s.logErr("AddPolicy", err)
}

func (s *SQLiteStore) GetPolicy(id string) *api.RentalPolicy {
	p := &api.RentalPolicy{}
	var rate string
	err := s.db.QueryRow(`SELECT id, name, allowed_hours, overage_rate_per_hour FROM policies WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.AllowedHours, &rate)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logErr("GetPolicy", err)
		}
		return nil
	}
	p.OverageRatePerHour = parseMoney(rate)
	return p
}

func (s *SQLiteStore) ListPolicies() []*api.RentalPolicy {
	rows, err := s.db.Query(`SELECT id, name, allowed_hours, overage_rate_per_hour FROM policies ORDER BY name, id`)
	if err != nil {
		s.logErr("ListPolicies: query", err)
		return nil
	}
	defer rows.Close()
	var out []*api.RentalPolicy
	for rows.Next() {
		p := &api.RentalPolicy{}
		var rate string
		if err := rows.Scan(&p.ID, &p.Name, &p.AllowedHours, &rate); err != nil {
			s.logErr("ListPolicies: scan", err)
			continue
		}
		p.OverageRatePerHour = parseMoney(rate)
		out = append(out, p)
	}
	s.logErr("ListPolicies: rows.Err", rows.Err())
	return out
}

// --- checklists ---

func (s *SQLiteStore) AddChecklist(c *api.Checklist) {
	_, err := s.db.Exec(`INSERT INTO checklists (id, template_id, equipment_id, kind, status, policy_id, inspector_name, hours_start, hours_end, previous_id, created_at, finalized_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.TemplateID, c.EquipmentID, c.Kind, c.Status, toNullString(c.PolicyID), toNullString(c.InspectorName),
		c.HoursStart, toNullFloat(c.HoursEnd), toNullString(c.PreviousID), c.CreatedAt, c.FinalizedAt)
	s.logErr("AddChecklist", err)
}

func (s *SQLiteStore) scanChecklist(row interface{ Scan(...any) error }) *api.Checklist {
	c := &api.Checklist{}
	var policy, inspector, previous sql.NullString
	var hoursEnd sql.NullFloat64
	var finalized sql.NullTime
	err := row.Scan(&c.ID, &c.TemplateID, &c.EquipmentID, &c.Kind, &c.Status, &policy, &inspector,
		&c.HoursStart, &hoursEnd, &previous, &c.CreatedAt, &finalized)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logErr("scanChecklist", err)
		}
		return nil
	}
	c.PolicyID = policy.String
	c.InspectorName = inspector.String
	c.PreviousID = previous.String
	if hoursEnd.Valid {
		v := hoursEnd.Float64
		c.HoursEnd = &v
	}
	if finalized.Valid {
		t := finalized.Time
		c.FinalizedAt = &t
	}
	return c
}

const checklistCols = `id, template_id, equipment_id, kind, status, policy_id, inspector_name, hours_start, hours_end, previous_id, created_at, finalized_at`

func (s *SQLiteStore) GetChecklist(id string) *api.Checklist {
	row := s.db.QueryRow(`SELECT `+checklistCols+` FROM checklists WHERE id = ?`, id)
	return s.scanChecklist(row)
}

func (s *SQLiteStore) UpdateChecklist(c *api.Checklist) bool {
	res, err := s.db.Exec(`UPDATE checklists SET template_id = ?, equipment_id = ?, kind = ?, status = ?, policy_id = ?, inspector_name = ?, hours_start = ?, hours_end = ?, previous_id = ?, finalized_at = ? WHERE id = ?`,
		c.TemplateID, c.EquipmentID, c.Kind, c.Status, toNullString(c.PolicyID), toNullString(c.InspectorName),
		c.HoursStart, toNullFloat(c.HoursEnd), toNullString(c.PreviousID), c.FinalizedAt, c.ID)
	if err != nil {
		s.logErr("UpdateChecklist", err)
		return false
	}
	n, _ := res.RowsAffected()
	return n > 0
}

func (s *SQLiteStore) ListChecklistsByEquipment(equipmentID string) []*api.Checklist {
	rows, err := s.db.Query(`SELECT `+checklistCols+` FROM checklists WHERE equipment_id = ? ORDER BY created_at, id`, equipmentID)
	if err != nil {
		s.logErr("ListChecklistsByEquipment: query", err)
		return nil
	}
	defer rows.Close()
	var out []*api.Checklist
	for rows.Next() {
		if c := s.scanChecklist(rows); c != nil {
			out = append(out, c)
		}
	}
	s.logErr("ListChecklistsByEquipment: rows.Err", rows.Err())
	return out
}

// --- responses ---

func (s *SQLiteStore) UpsertInspectionResponse(checklistID string, r *api.InspectionResponse) {
	_, err := s.db.Exec(`INSERT INTO inspection_responses (checklist_id, question_id, selected_option_id, notes) VALUES (?, ?, ?, ?)
		ON CONFLICT (checklist_id, question_id) DO UPDATE SET selected_option_id = excluded.selected_option_id, notes = excluded.notes`,
		checklistID, r.QuestionID, toNullString(r.SelectedOptionID), toNullString(r.Notes))
	s.logErr("UpsertInspectionResponse", err)
}

func (s *SQLiteStore) ListInspectionResponses(checklistID string) []*api.InspectionResponse {
	rows, err := s.db.Query(`SELECT checklist_id, question_id, selected_option_id, notes FROM inspection_responses WHERE checklist_id = ? ORDER BY question_id`, checklistID)
	if err != nil {
		s.logErr("ListInspectionResponses: query", err)
		return nil
	}
	defer rows.Close()
	var out []*api.InspectionResponse
	for rows.Next() {
		r := &api.InspectionResponse{}
		var opt, notes sql.NullString
		if err := rows.Scan(&r.ChecklistID, &r.QuestionID, &opt, &notes); err != nil {
			s.logErr("ListInspectionResponses: scan", err)
			continue
		}
		r.SelectedOptionID = opt.String
		r.Notes = notes.String
		out = append(out, r)
	}
	s.logErr("ListInspectionResponses: rows.Err", rows.Err())
	return out
}

func (s *SQLiteStore) UpsertCustomerResponse(checklistID string, r *api.CustomerResponse) {
	_, err := s.db.Exec(`INSERT INTO customer_responses (checklist_id, question_id, delivery_option_id, return_option_id, delivery_notes, return_notes)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (checklist_id, question_id) DO UPDATE SET
			delivery_option_id = excluded.delivery_option_id,
			return_option_id = excluded.return_option_id,
			delivery_notes = excluded.delivery_notes,
			return_notes = excluded.return_notes`,
		checklistID, r.QuestionID, toNullString(r.DeliveryOptionID), toNullString(r.ReturnOptionID),
		toNullString(r.DeliveryNotes), toNullString(r.ReturnNotes))
	s.logErr("UpsertCustomerResponse", err)
}

func (s *SQLiteStore) ListCustomerResponses(checklistID string) []*api.CustomerResponse {
	rows, err := s.db.Query(`SELECT checklist_id, question_id, delivery_option_id, return_option_id, delivery_notes, return_notes
		FROM customer_responses WHERE checklist_id = ? ORDER BY question_id`, checklistID)
	if err != nil {
		s.logErr("ListCustomerResponses: query", err)
		return nil
	}
	defer rows.Close()
	var out []*api.CustomerResponse
	for rows.Next() {
		r := &api.CustomerResponse{}
		var dOpt, rOpt, dNotes, rNotes sql.NullString
		if err := rows.Scan(&r.ChecklistID, &r.QuestionID, &dOpt, &rOpt, &dNotes, &rNotes); err != nil {
			s.logErr("ListCustomerResponses: scan", err)
			continue
		}
		r.DeliveryOptionID = dOpt.String
		r.ReturnOptionID = rOpt.String
		r.DeliveryNotes = dNotes.String
		r.ReturnNotes = rNotes.String
		out = append(out, r)
	}
	s.logErr("ListCustomerResponses: rows.Err", rows.Err())
	return out
}

// --- users ---

func (s *SQLiteStore) AddUser(u *api.User) {
	_, err := s.db.Exec(`INSERT INTO users (id, email, display_name, pass_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Email, toNullString(u.DisplayName), u.PassHash, u.CreatedAt)
	s.logErr("AddUser", err)
}

func (s *SQLiteStore) FindUserByEmail(email string) *api.User {
	u := &api.User{}
	var name sql.NullString
	err := s.db.QueryRow(`SELECT id, email, display_name, pass_hash, created_at FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Email, &name, &u.PassHash, &u.CreatedAt)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.logErr("FindUserByEmail", err)
		}
		return nil
	}
	u.DisplayName = name.String
	return u
}

// --- audit ---

func (s *SQLiteStore) AddAudit(e api.AuditEntry) {
	_, err := s.db.Exec(`INSERT INTO audit_log (at, actor, action, target, note) VALUES (?, ?, ?, ?, ?)`,
		e.Time, toNullString(e.Actor), e.Action, toNullString(e.Target), toNullString(e.Note))
	s.logErr("AddAudit", err)
}

func (s *SQLiteStore) ListAudit() []api.AuditEntry {
	rows, err := s.db.Query(`SELECT at, actor, action, target, note FROM audit_log ORDER BY at`)
	if err != nil {
		s.logErr("ListAudit: query", err)
		return nil
	}
	defer rows.Close()
	var out []api.AuditEntry
	for rows.Next() {
		var e api.AuditEntry
		var actor, target, note sql.NullString
		if err := rows.Scan(&e.Time, &actor, &e.Action, &target, &note); err != nil {
			s.logErr("ListAudit: scan", err)
			continue
		}
		e.Actor = actor.String
		e.Target = target.String
		e.Note = note.String
		out = append(out, e)
	}
	s.logErr("ListAudit: rows.Err", rows.Err())
	return out
}
