package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rentalworks/gearcheck/internal/middleware"
	"github.com/rentalworks/gearcheck/internal/services"
)

// Router wires HTTP routes to the checklist services. All decision logic
// lives in internal/services; handlers only decode, delegate, and encode.
type Router struct {
	store      Store
	templates  *services.TemplateService
	policies   *services.PolicyService
	checklists *services.ChecklistService
	auth       *services.AuthService
}

func NewRouter(store Store, signer services.TokenSigner) *Router {
	return &Router{
		store:      store,
		templates:  services.NewTemplateService(newTemplateStoreAdapter(store)),
		policies:   services.NewPolicyService(newPolicyStoreAdapter(store)),
		checklists: services.NewChecklistService(newChecklistStoreAdapter(store)),
		auth:       services.NewAuthService(newAuthStoreAdapter(store), signer),
	}
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/auth/register", rt.handleRegister)        // POST
	mux.HandleFunc("/api/auth/login", rt.handleLogin)              // POST
	mux.HandleFunc("/api/seed", rt.handleSeed)                     // POST
	mux.HandleFunc("/api/templates", rt.handleTemplates)           // GET, POST
	mux.HandleFunc("/api/templates/", rt.handleTemplateScoped)     // GET /api/templates/{id}/questions
	mux.HandleFunc("/api/categories", rt.handleCategories)         // GET, POST
	mux.HandleFunc("/api/questions", rt.handleQuestions)           // POST
	mux.HandleFunc("/api/customer-questions", rt.handleCustomerQuestions) // POST
	mux.HandleFunc("/api/customer-questions/", rt.handleCustomerQuestionScoped) // POST .../sync
	mux.HandleFunc("/api/policies", rt.handlePolicies)             // GET, POST
	mux.HandleFunc("/api/checklists", rt.handleChecklists)         // POST
	mux.HandleFunc("/api/checklists/", rt.handleChecklistScoped)   // session operations
	mux.HandleFunc("/api/export", rt.handleExport)                 // GET
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps service errors onto HTTP statuses. Blocked finalizations keep
// their enumerated reasons so the client can render them as a list.
func writeErr(w http.ResponseWriter, err error) {
	var blocked *services.FinalizeBlockedError
	if errors.As(err, &blocked) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":   "finalize blocked",
			"reasons": blocked.Reasons,
		})
		return
	}
	if errors.Is(err, services.ErrChecklistFinalized) {
		writeJSON(w, http.StatusConflict, map[string]any{"error": err.Error()})
		return
	}
	if errors.Is(err, services.ErrPolicyMissing) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return
	}
	if se, ok := services.AsServiceError(err); ok {
		status := http.StatusInternalServerError
		switch se.Code {
		case services.ErrorInvalid:
			status = http.StatusBadRequest
		case services.ErrorForbidden:
			status = http.StatusForbidden
		case services.ErrorNotFound:
			status = http.StatusNotFound
		case services.ErrorConflict:
			status = http.StatusConflict
		case services.ErrorUnauthorized:
			status = http.StatusUnauthorized
		}
		writeJSON(w, status, map[string]any{"error": se.Message})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
}

func (rt *Router) requireUser(w http.ResponseWriter, r *http.Request) (*middleware.Claims, bool) {
	c, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	return c, true
}

// POST /api/auth/register — {email, password, display_name}
func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := rt.auth.Register(req.Email, req.Password, req.DisplayName)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": res.Token, "user_id": res.UserID, "display_name": res.DisplayName})
}

// POST /api/auth/login — {email, password}
func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := rt.auth.Login(req.Email, req.Password)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": res.Token, "user_id": res.UserID, "display_name": res.DisplayName})
}

// GET|POST /api/templates
func (rt *Router) handleTemplates(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, rt.store.ListTemplates())
	case http.MethodPost:
		if _, ok := rt.requireUser(w, r); !ok {
			return
		}
		var req struct {
			Name string `json:"name"`
			Kind string `json:"kind"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		t, err := rt.templates.CreateTemplate(req.Name, services.ChecklistKind(req.Kind))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, fromServiceTemplate(t))
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// GET /api/templates/{id}/questions
func (rt *Router) handleTemplateScoped(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/templates/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[1] != "questions" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := parts[0]
	tmpl := rt.store.GetTemplate(id)
	if tmpl == nil {
		http.Error(w, "template not found", http.StatusNotFound)
		return
	}
	switch tmpl.Kind {
	case string(services.KindInspection):
		writeJSON(w, http.StatusOK, map[string]any{"template_id": id, "questions": rt.store.ListInspectionQuestions(id)})
	case string(services.KindCustomer):
		writeJSON(w, http.StatusOK, map[string]any{"template_id": id, "questions": rt.store.ListCustomerQuestions(id)})
	default:
		http.Error(w, "unknown template kind", http.StatusInternalServerError)
	}
}

// GET|POST /api/categories
func (rt *Router) handleCategories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, rt.store.ListCategories())
	case http.MethodPost:
		if _, ok := rt.requireUser(w, r); !ok {
			return
		}
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		c, err := rt.templates.CreateCategory(req.Name)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, &Category{ID: c.ID, Name: c.Name})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// POST /api/questions
func (rt *Router) handleQuestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, ok := rt.requireUser(w, r); !ok {
		return
	}
	var q InspectionQuestion
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	created, err := rt.templates.CreateInspectionQuestion(toServiceInspectionQuestion(&q))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fromServiceInspectionQuestion(created))
}

// POST /api/customer-questions
func (rt *Router) handleCustomerQuestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, ok := rt.requireUser(w, r); !ok {
		return
	}
	var q CustomerQuestion
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	created, err := rt.templates.CreateCustomerQuestion(toServiceCustomerQuestion(&q))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fromServiceCustomerQuestion(created))
}

// POST /api/customer-questions/{id}/sync
func (rt *Router) handleCustomerQuestionScoped(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/customer-questions/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[1] != "sync" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, ok := rt.requireUser(w, r); !ok {
		return
	}
	q, err := rt.templates.SyncReturnDescriptions(parts[0])
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fromServiceCustomerQuestion(q))
}

// GET|POST /api/policies
func (rt *Router) handlePolicies(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, rt.store.ListPolicies())
	case http.MethodPost:
		if _, ok := rt.requireUser(w, r); !ok {
			return
		}
		var p RentalPolicy
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		created, err := rt.policies.CreatePolicy(toServicePolicy(&p))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, fromServicePolicy(created))
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// POST /api/checklists — {template_id, equipment_id, policy_id?, hours_start?}
func (rt *Router) handleChecklists(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		TemplateID  string  `json:"template_id"`
		EquipmentID string  `json:"equipment_id"`
		PolicyID    string  `json:"policy_id"`
		HoursStart  float64 `json:"hours_start"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	c, err := rt.checklists.StartChecklist(services.StartChecklistRequest{
		TemplateID:  req.TemplateID,
		EquipmentID: req.EquipmentID,
		PolicyID:    req.PolicyID,
		HoursStart:  req.HoursStart,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fromServiceChecklist(c))
}

// handleChecklistScoped dispatches /api/checklists/{id}[/op].
func (rt *Router) handleChecklistScoped(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/checklists/")
	parts := strings.Split(rest, "/")
	id := parts[0]
	if id == "" {
		http.NotFound(w, r)
		return
	}
	op := ""
	if len(parts) == 2 {
		op = parts[1]
	} else if len(parts) > 2 {
		http.NotFound(w, r)
		return
	}

	switch op {
	case "":
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		c := rt.store.GetChecklist(id)
		if c == nil {
			http.Error(w, "checklist not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, c)
	case "answers":
		rt.handleAnswers(w, r, id)
	case "hours":
		rt.handleHours(w, r, id)
	case "evaluation":
		rt.handleEvaluation(w, r, id)
	case "cost":
		rt.handleCost(w, r, id)
	case "finalize-check":
		rt.handleFinalizeCheck(w, r, id)
	case "finalize":
		rt.handleFinalize(w, r, id)
	case "revise":
		rt.handleRevise(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

// POST /api/checklists/{id}/answers
// Inspection: {question_id, option_id, notes}
// Customer:   {question_id, side: delivery|return, option_id, notes}
func (rt *Router) handleAnswers(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		QuestionID string `json:"question_id"`
		Side       string `json:"side"`
		OptionID   string `json:"option_id"`
		Notes      string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var err error
	if req.Side == "" {
		err = rt.checklists.RecordInspectionAnswer(id, req.QuestionID, req.OptionID, req.Notes)
	} else {
		err = rt.checklists.RecordCustomerAnswer(id, req.QuestionID, services.HandoffSide(req.Side), req.OptionID, req.Notes)
	}
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// POST /api/checklists/{id}/hours — {start, end?}
func (rt *Router) handleHours(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Start float64  `json:"start"`
		End   *float64 `json:"end"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := rt.checklists.SetHours(id, req.Start, req.End); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// GET /api/checklists/{id}/evaluation
func (rt *Router) handleEvaluation(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	res, err := rt.checklists.Evaluation(id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"per_item_state": res.PerItemState,
		"counts": map[string]int{
			"required_total":         res.Counts.RequiredTotal,
			"required_completed":     res.Counts.RequiredCompleted,
			"maintenance_hold_count": res.Counts.MaintenanceHoldCount,
			"damaged_count":          res.Counts.DamagedCount,
			"total_items":            res.Counts.TotalItems,
			"completed_items":        res.Counts.CompletedItems,
		},
		"catalog_errors": res.CatalogErrors,
	})
}

// GET /api/checklists/{id}/cost
func (rt *Router) handleCost(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	res, err := rt.checklists.Cost(id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, costPayload(res))
}

func costPayload(res *services.CostResult) map[string]any {
	charges := make(map[string]decimal.Decimal, len(res.ItemCharges))
	for qid, c := range res.ItemCharges {
		charges[qid] = c
	}
	return map[string]any{
		"item_charges":              charges,
		"total_item_cost":           res.TotalItemCost,
		"pending_question_ids":      res.PendingQuestionIDs,
		"required_missing_delivery": res.RequiredMissingDelivery,
		"required_missing_return":   res.RequiredMissingReturn,
		"hours_used":                res.HoursUsed,
		"overage_hours":             res.OverageHours,
		"overage_cost":              res.OverageCost,
		"grand_total":               res.GrandTotal,
		"hours_invalid":             res.HoursInvalid,
		"catalog_errors":            res.CatalogErrors,
	}
}

// GET /api/checklists/{id}/finalize-check?mode=...&inspector=...
func (rt *Router) handleFinalizeCheck(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	mode := services.FinalizeMode(r.URL.Query().Get("mode"))
	inspector := r.URL.Query().Get("inspector")
	decision, err := rt.checklists.CheckFinalize(id, mode, inspector)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"allowed": decision.Allowed, "blocking_reasons": decision.BlockingReasons})
}

// POST /api/checklists/{id}/finalize — {mode, inspector_name?}
// The inspector name defaults to the signed-in user's display name.
func (rt *Router) handleFinalize(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	claims, ok := rt.requireUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Mode          string `json:"mode"`
		InspectorName string `json:"inspector_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	inspector := req.InspectorName
	if inspector == "" {
		inspector = claims.Name
	}
	c, err := rt.checklists.Finalize(id, services.FinalizeMode(req.Mode), inspector)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fromServiceChecklist(c))
}

// POST /api/checklists/{id}/revise
func (rt *Router) handleRevise(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, ok := rt.requireUser(w, r); !ok {
		return
	}
	c, err := rt.checklists.StartRevision(id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, fromServiceChecklist(c))
}

// GET /api/export?checklist_id=...&format=inspection|cost
func (rt *Router) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := r.URL.Query().Get("checklist_id")
	if id == "" {
		http.Error(w, "checklist_id required", http.StatusBadRequest)
		return
	}
	c := rt.store.GetChecklist(id)
	if c == nil {
		http.Error(w, "checklist not found", http.StatusNotFound)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		if c.Kind == string(services.KindCustomer) {
			format = "cost"
		} else {
			format = "inspection"
		}
	}

	switch format {
	case "inspection":
		res, err := rt.checklists.Evaluation(id)
		if err != nil {
			writeErr(w, err)
			return
		}
		notes := map[string]string{}
		for _, resp := range rt.store.ListInspectionResponses(id) {
			notes[resp.QuestionID] = resp.Notes
		}
		rows := make([]services.InspectionRow, 0, len(res.PerItemState))
		for _, q := range rt.store.ListInspectionQuestions(c.TemplateID) {
			rows = append(rows, services.InspectionRow{
				QuestionID:   q.ID,
				QuestionName: q.Name,
				State:        res.PerItemState[q.ID],
				Notes:        notes[q.ID],
			})
		}
		b, err := services.ExportInspectionCSV(rows)
		if err != nil {
			writeErr(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=inspection.csv")
		_, _ = w.Write(b)
	case "cost":
		res, err := rt.checklists.Cost(id)
		if err != nil {
			writeErr(w, err)
			return
		}
		pending := map[string]bool{}
		for _, qid := range res.PendingQuestionIDs {
			pending[qid] = true
		}
		var rows []services.CostRow
		for _, q := range rt.store.ListCustomerQuestions(c.TemplateID) {
			charge, ok := res.ItemCharges[q.ID]
			if !ok && !pending[q.ID] {
				continue
			}
			rows = append(rows, services.CostRow{
				QuestionID:   q.ID,
				QuestionName: q.Name,
				Charge:       charge,
				Pending:      pending[q.ID],
			})
		}
		b, err := services.ExportCostCSV(rows, res)
		if err != nil {
			writeErr(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename=cost.csv")
		_, _ = w.Write(b)
	default:
		http.Error(w, "unsupported format", http.StatusBadRequest)
	}
}
