package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"group-bridge/internal/auth"
	"group-bridge/internal/manager"
	"group-bridge/internal/metrics"
	"group-bridge/internal/storage"
)

func (a *API) Router() http.Handler {
	r := chi.NewRouter()

	// Public
	r.Get("/healthz", a.Health)
	r.Handle("/metrics", metrics.Handler())
	r.Post("/auth/token", a.IssueToken)

	// Secured
	r.Group(func(r chi.Router) {
		r.Use(auth.JWTAuthMiddleware)

		r.Post("/groups/resolve", a.ResolveGroup)
		r.Get("/groups", a.ListGroups)
		r.Get("/groups/{id}/agency", a.GroupAgency)
		r.Get("/agencies", a.ListAgencies)
		r.Get("/stats", a.Stats)
	})

	return r
}

// @Summary Liveness probe
// @Tags Ops
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

type tokenRequest struct {
	AgencyID int64 `json:"agency_id"`
}

// @Summary Issue an agency JWT
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/token [post]
func (a *API) IssueToken(w http.ResponseWriter, r *http.Request) {
	var body tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.AgencyID <= 0 {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}

	token, err := auth.GenerateToken(body.AgencyID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"token": token})
}

type resolveRequest struct {
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	AgencyID   int64  `json:"agency_id,omitempty"`
}

// @Summary Resolve or register a group by its external id
// @Tags Groups
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Success 200 {object} model.Group
// @Router /groups/resolve [post]
func (a *API) ResolveGroup(w http.ResponseWriter, r *http.Request) {
	var body resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	if body.ExternalID == "" {
		http.Error(w, "external_id is required", http.StatusBadRequest)
		return
	}

	group, err := a.Manager.ResolveOrRegister(r.Context(), body.ExternalID, body.Name, body.AgencyID)
	if err != nil {
		switch {
		case errors.Is(err, manager.ErrNoAgencyAvailable):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, manager.ErrCreationInconsistency):
			http.Error(w, err.Error(), http.StatusInternalServerError)
		default:
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
		}
		return
	}

	log.Printf("API: Resolved group %s -> id %d", body.ExternalID, group.ID)
	json.NewEncoder(w).Encode(group)
}

// @Summary List groups
// @Tags Groups
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /groups [get]
func (a *API) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := a.Groups.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{"data": groups})
}

// @Summary Which agency owns a group's traffic
// @Tags Groups
// @Security ApiKeyAuth
// @Param id path int true "Group internal id"
// @Produce json
// @Success 200 {object} map[string]int64
// @Router /groups/{id}/agency [get]
func (a *API) GroupAgency(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid group id", http.StatusBadRequest)
		return
	}

	agencyID, err := a.Manager.AgencyIDForGroup(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "group not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	json.NewEncoder(w).Encode(map[string]int64{"agency_id": agencyID})
}

// @Summary List agencies
// @Tags Agencies
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /agencies [get]
func (a *API) ListAgencies(w http.ResponseWriter, r *http.Request) {
	agencies, err := a.Agencies.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{"data": agencies})
}

// @Summary Bridge counters
// @Tags Ops
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} map[string]int64
// @Router /stats [get]
func (a *API) Stats(w http.ResponseWriter, r *http.Request) {
	groupCount, err := a.Groups.Count(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	agencyCount, err := a.Agencies.Count(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]int64{
		"groups":   groupCount,
		"agencies": agencyCount,
	})
}
