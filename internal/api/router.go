// Package api exposes the assessment engine over HTTP. Handlers stay
// thin: decode, build the actor context, call a service, encode.
package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/soaringjerry/Scorecard/internal/middleware"
	"github.com/soaringjerry/Scorecard/internal/services"
	"github.com/soaringjerry/Scorecard/internal/storage"
)

type Router struct {
	store       storage.Store
	assessments *services.AssessmentService
	people      *services.PeopleService
	auth        *services.AuthService
}

func NewRouter(store storage.Store) *Router {
	signer := func(personID string, admin services.AdminRole, ttl time.Duration) (string, error) {
		return middleware.SignToken(personID, string(admin), ttl)
	}
	return &Router{
		store:       store,
		assessments: services.NewAssessmentService(store),
		people:      services.NewPeopleService(store),
		auth:        services.NewAuthService(store, signer),
	}
}

func (rt *Router) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/auth/register", rt.handleRegister) // POST
	mux.HandleFunc("/api/auth/login", rt.handleLogin)       // POST
	mux.HandleFunc("/api/assessments", rt.handleSubmit)     // POST
	mux.HandleFunc("/api/assessments/", rt.handleAssessmentScoped)
	mux.HandleFunc("/api/people", rt.handlePeopleList) // GET
	mux.HandleFunc("/api/people/", rt.handlePersonScoped)
}

// actorFrom resolves the ActorContext for the request. Team membership
// is loaded from the store rather than the token so reassignments
// apply without re-login.
func (rt *Router) actorFrom(r *http.Request) (services.ActorContext, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return services.ActorContext{}, false
	}
	actor := services.ActorContext{PersonID: claims.PID, AdminRole: services.AdminRole(claims.Adm)}
	if p, err := rt.store.GetPerson(claims.PID); err == nil && p != nil {
		actor.AdminRole = p.AdminRole
		actor.Team = p.Team
	}
	return actor, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := services.ErrorCode("internal")
	if se, ok := services.AsServiceError(err); ok {
		code = se.Code
		switch se.Code {
		case services.ErrorInvalid:
			status = http.StatusBadRequest
		case services.ErrorUnauthorized:
			status = http.StatusUnauthorized
		case services.ErrorForbidden:
			status = http.StatusForbidden
		case services.ErrorNotFound:
			status = http.StatusNotFound
		case services.ErrorConflict:
			status = http.StatusConflict
		case services.ErrorInconsistent:
			status = http.StatusInternalServerError
		}
	}
	writeJSON(w, status, map[string]any{"error": code, "message": err.Error()})
}

// POST /api/auth/register — {name, password, role}
func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Name     string `json:"name"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := rt.auth.Register(req.Name, req.Password, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": res.Token, "person_id": res.PersonID, "admin_role": res.AdminRole})
}

// POST /api/auth/login — {name, password}
func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := rt.auth.Login(req.Name, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": res.Token, "person_id": res.PersonID, "admin_role": res.AdminRole})
}

// POST /api/assessments — SubmitRequest body
func (rt *Router) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	actor, ok := rt.actorFrom(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req services.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	role, err := services.ParseAssessorRole(string(req.AssessorRole))
	if err != nil {
		writeError(w, err)
		return
	}
	req.AssessorRole = role
	rec, err := rt.assessments.Submit(actor, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": rec.ID, "status": rec.Status, "timestamp": rec.CreatedAt})
}

// GET    /api/assessments/{subject}
// GET    /api/assessments/{subject}/summary
// POST   /api/assessments/{subject}/{id}/approve
// POST   /api/assessments/{subject}/{id}/reject
// DELETE /api/assessments/{subject}/{id}
func (rt *Router) handleAssessmentScoped(w http.ResponseWriter, r *http.Request) {
	actor, ok := rt.actorFrom(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/assessments/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	subject := parts[0]

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		res, err := rt.assessments.ListForViewer(actor, subject)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	case len(parts) == 2 && parts[1] == "summary" && r.Method == http.MethodGet:
		sum, err := rt.assessments.Summary(actor, subject)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sum)
	case len(parts) == 3 && parts[2] == "approve" && r.Method == http.MethodPost:
		if err := rt.assessments.Approve(actor, subject, parts[1]); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	case len(parts) == 3 && parts[2] == "reject" && r.Method == http.MethodPost:
		if err := rt.assessments.Reject(actor, subject, parts[1]); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	case len(parts) == 2 && r.Method == http.MethodDelete:
		if err := rt.assessments.Delete(actor, subject, parts[1]); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		http.NotFound(w, r)
	}
}

// GET /api/people
func (rt *Router) handlePeopleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	actor, ok := rt.actorFrom(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	people, err := rt.people.List(actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"people": people})
}

// POST   /api/people/{id}/manager — {team: [ids]} assigns the manager role
// DELETE /api/people/{id}/manager — revokes it
func (rt *Router) handlePersonScoped(w http.ResponseWriter, r *http.Request) {
	actor, ok := rt.actorFrom(r)
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/people/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	id := parts[0]

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		p, err := rt.people.Get(actor, id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	case len(parts) == 2 && parts[1] == "manager" && r.Method == http.MethodPost:
		var req struct {
			Team []string `json:"team"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := rt.people.AssignManager(actor, id, req.Team); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	case len(parts) == 2 && parts[1] == "manager" && r.Method == http.MethodDelete:
		if err := rt.people.RevokeManager(actor, id); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		http.NotFound(w, r)
	}
}
