package web

import (
	"net/http"

	"gohuddleup/internal/application/projections"
)

// handleHome renders the landing page with the state picker.
func (a *app) handleHome(w http.ResponseWriter, r *http.Request) {
	states, err := projections.QueryListStates(r.Context(), projections.ListStatesDeps{Directory: a.client.Schools()})
	if err != nil {
		internalError(w, err)
		return
	}
	a.render(w, r, http.StatusOK, "home.html", "Find your huddle", states, "")
}

// handleListStates handles GET /api/states
func (a *app) handleListStates(w http.ResponseWriter, r *http.Request) {
	states, err := projections.QueryListStates(r.Context(), projections.ListStatesDeps{Directory: a.client.Schools()})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, states)
}

// handleSearchSchools handles GET /api/schools?state=KY&q=central&limit=20
func (a *app) handleSearchSchools(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("state") == "" {
		badRequest(w, "state is required")
		return
	}
	limit, ok := intParam(w, q.Get("limit"), 0, "limit")
	if !ok {
		return
	}
	results, err := projections.QuerySearchSchools(r.Context(), projections.SearchSchoolsQuery{
		StateCode: q.Get("state"),
		Query:     q.Get("q"),
		Limit:     limit,
	}, projections.SearchSchoolsDeps{Directory: a.client.Schools()})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}
