package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"rollcall/internal/adapters/http/middleware"
	"rollcall/internal/application/listutil"
	"rollcall/internal/application/orchestrators"
	"rollcall/internal/application/projections"
	"rollcall/internal/domain/attendance"
	"rollcall/internal/domain/identity"
	"rollcall/internal/domain/person"
)

// registerRoutes attaches all handlers to the mux. Every /api route except
// /healthz requires a verified identity.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", handleHealthz)

	api := func(path string, h http.HandlerFunc) {
		mux.Handle(path, middleware.RequireIdentity(h))
	}

	api("/api/roster", handleRoster)
	api("/api/activity", handleRecentActivity)
	api("/api/rollcalls", handleRecentRollCalls)
	api("/api/history", handlePersonHistory)

	api("/api/attendance/mark", handleMarkPresent)
	api("/api/attendance/unmark", handleUnmarkPresent)

	api("/api/members", handlePersonList(person.CohortMember))
	api("/api/members/add", handleAddPerson(person.CohortMember))
	api("/api/members/quick-add", handleQuickAddPerson(person.CohortMember))
	api("/api/members/update", handleUpdatePerson(person.CohortMember))
	api("/api/members/remove", handleRemovePerson(person.CohortMember))
	api("/api/members/import", handleBulkImport(person.CohortMember))

	api("/api/kids", handlePersonList(person.CohortKid))
	api("/api/kids/add", handleAddPerson(person.CohortKid))
	api("/api/kids/quick-add", handleQuickAddPerson(person.CohortKid))
	api("/api/kids/update", handleUpdatePerson(person.CohortKid))
	api("/api/kids/remove", handleRemovePerson(person.CohortKid))
	api("/api/kids/import", handleBulkImport(person.CohortKid))

	api("/api/perf", handlePerf)
}

// writeJSON encodes v with the standard content type.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

// writeError maps domain errors onto HTTP statuses. Forbidden responses
// carry the orchestrator's message so the caller can see which role was
// rejected; everything unmapped stays generic.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, identity.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	case errors.Is(err, identity.ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, person.ErrNotFound), errors.Is(err, attendance.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, person.ErrDuplicateContact):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, person.ErrInvalid), errors.Is(err, attendance.ErrInvalidDate):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		internalError(w, err)
	}
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// caller returns the verified identity stored by the auth middleware.
// RequireIdentity guarantees presence on /api routes.
func caller(r *http.Request) identity.Identity {
	id, _ := middleware.GetIdentityFromContext(r.Context())
	return id
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRoster handles GET /api/roster?date=YYYY-MM-DD
func handleRoster(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().UTC().Format(attendance.DateFormat)
	}

	res, err := projections.QueryGetRoster(r.Context(), projections.GetRosterQuery{Date: date}, projections.GetRosterDeps{
		MemberStore:     stores.MemberStore,
		KidStore:        stores.KidStore,
		AttendanceStore: stores.AttendanceStore,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleRecentActivity handles GET /api/activity?limit=N
func handleRecentActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	res, err := projections.QueryGetRecentActivity(r.Context(), projections.GetRecentActivityQuery{Limit: limit}, projections.GetRecentActivityDeps{
		MemberStore:     stores.MemberStore,
		KidStore:        stores.KidStore,
		AttendanceStore: stores.AttendanceStore,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleRecentRollCalls handles GET /api/rollcalls?limit=N
func handleRecentRollCalls(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	res, err := projections.QueryGetRecentRollCalls(r.Context(), projections.GetRecentRollCallsQuery{Limit: limit}, projections.GetRecentRollCallsDeps{
		AttendanceStore: stores.AttendanceStore,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handlePersonHistory handles GET /api/history?personId=ID
func handlePersonHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	personID := r.URL.Query().Get("personId")
	if personID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "personId is required"})
		return
	}

	res, err := projections.QueryGetPersonHistory(r.Context(), projections.GetPersonHistoryQuery{PersonID: personID}, projections.GetPersonHistoryDeps{
		MemberStore:     stores.MemberStore,
		KidStore:        stores.KidStore,
		AttendanceStore: stores.AttendanceStore,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleMarkPresent handles POST /api/attendance/mark
func handleMarkPresent(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		PersonID string `json:"personId"`
		Date     string `json:"date"`
	}
	if err := strictDecode(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
		return
	}

	id, err := orchestrators.ExecuteMarkPresent(r.Context(), orchestrators.MarkPresentInput{
		PersonID: body.PersonID,
		Date:     body.Date,
		Caller:   caller(r),
	}, orchestrators.MarkPresentDeps{
		MemberStore:     stores.MemberStore,
		KidStore:        stores.KidStore,
		AttendanceStore: stores.AttendanceStore,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

// handleUnmarkPresent handles POST /api/attendance/unmark
func handleUnmarkPresent(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		PersonID string `json:"personId"`
		Date     string `json:"date"`
	}
	if err := strictDecode(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
		return
	}

	id, err := orchestrators.ExecuteUnmarkPresent(r.Context(), orchestrators.UnmarkPresentInput{
		PersonID: body.PersonID,
		Date:     body.Date,
		Caller:   caller(r),
	}, orchestrators.MarkPresentDeps{
		MemberStore:     stores.MemberStore,
		KidStore:        stores.KidStore,
		AttendanceStore: stores.AttendanceStore,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	// id is empty when there was nothing to unmark
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

// handlePersonList handles GET /api/members and GET /api/kids
func handlePersonList(cohort string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		q := r.URL.Query()
		var active *bool
		if v := q.Get("active"); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "active must be true or false"})
				return
			}
			active = &b
		}
		page := listutil.ParsePageParams(q)
		sort := listutil.ParseSortParams(q, []string{"name", "residence"})

		store := stores.MemberStore
		if cohort == person.CohortKid {
			store = stores.KidStore
		}
		res, err := projections.QueryGetPersonList(r.Context(), projections.GetPersonListQuery{
			Active: active,
			Search: q.Get("q"),
			Sort:   sort.Sort,
			Dir:    sort.Dir,
			Page:   page,
		}, projections.GetPersonListDeps{PersonStore: store})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// personBody is the JSON shape shared by add and quick-add.
type personBody struct {
	Name       string `json:"name"`
	Contact    string `json:"contact"`
	Residence  string `json:"residence"`
	Gender     string `json:"gender"`
	Department string `json:"department"`
	Status     string `json:"status"`
	Active     *bool  `json:"active"`
}

// handleAddPerson handles POST /api/members/add and /api/kids/add
func handleAddPerson(cohort string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var body personBody
		if err := strictDecode(r, &body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
			return
		}

		id, err := orchestrators.ExecuteAddPerson(r.Context(), orchestrators.AddPersonInput{
			Cohort:     cohort,
			Name:       body.Name,
			Contact:    body.Contact,
			Residence:  body.Residence,
			Gender:     body.Gender,
			Department: body.Department,
			Status:     body.Status,
			Active:     body.Active,
			Caller:     caller(r),
		}, orchestrators.QuickAddPersonDeps{MemberStore: stores.MemberStore, KidStore: stores.KidStore})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})
	}
}

// handleQuickAddPerson handles POST /api/members/quick-add and /api/kids/quick-add
func handleQuickAddPerson(cohort string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var body personBody
		if err := strictDecode(r, &body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
			return
		}

		id, err := orchestrators.ExecuteQuickAddPerson(r.Context(), orchestrators.QuickAddPersonInput{
			Cohort:     cohort,
			Name:       body.Name,
			Contact:    body.Contact,
			Residence:  body.Residence,
			Gender:     body.Gender,
			Department: body.Department,
			Status:     body.Status,
			Caller:     caller(r),
		}, orchestrators.QuickAddPersonDeps{MemberStore: stores.MemberStore, KidStore: stores.KidStore})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"id": id})
	}
}

// handleUpdatePerson handles POST /api/members/update and /api/kids/update
func handleUpdatePerson(cohort string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var body struct {
			ID         string  `json:"id"`
			Name       *string `json:"name"`
			Contact    *string `json:"contact"`
			Residence  *string `json:"residence"`
			Gender     *string `json:"gender"`
			Department *string `json:"department"`
			Status     *string `json:"status"`
			Active     *bool   `json:"active"`
		}
		if err := strictDecode(r, &body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
			return
		}

		err := orchestrators.ExecuteUpdatePerson(r.Context(), orchestrators.UpdatePersonInput{
			Cohort:     cohort,
			PersonID:   body.ID,
			Name:       body.Name,
			Contact:    body.Contact,
			Residence:  body.Residence,
			Gender:     body.Gender,
			Department: body.Department,
			Status:     body.Status,
			Active:     body.Active,
			Caller:     caller(r),
		}, orchestrators.QuickAddPersonDeps{MemberStore: stores.MemberStore, KidStore: stores.KidStore})
		if err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleRemovePerson handles POST /api/members/remove and /api/kids/remove
func handleRemovePerson(cohort string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var body struct {
			ID string `json:"id"`
		}
		if err := strictDecode(r, &body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
			return
		}

		removed, err := orchestrators.ExecuteRemovePerson(r.Context(), orchestrators.RemovePersonInput{
			Cohort:   cohort,
			PersonID: body.ID,
			Caller:   caller(r),
		}, orchestrators.RemovePersonDeps{
			MemberStore:     stores.MemberStore,
			KidStore:        stores.KidStore,
			AttendanceStore: stores.AttendanceStore,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"attendanceRemoved": removed})
	}
}

// handleBulkImport handles POST /api/members/import and /api/kids/import
func handleBulkImport(cohort string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		var body struct {
			CSV string `json:"csv"`
		}
		if err := strictDecode(r, &body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
			return
		}

		input := orchestrators.BulkImportInput{CSV: body.CSV, Caller: caller(r)}
		deps := orchestrators.BulkImportDeps{MemberStore: stores.MemberStore, KidStore: stores.KidStore}

		var res orchestrators.BulkImportResult
		var err error
		if cohort == person.CohortKid {
			res, err = orchestrators.ExecuteBulkImportKids(r.Context(), input, deps)
		} else {
			res, err = orchestrators.ExecuteBulkImportMembers(r.Context(), input, deps)
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// handlePerf handles GET /api/perf. Admin only.
func handlePerf(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !caller(r).IsAdmin() {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "admin only"})
		return
	}
	if perfCollector == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "collector disabled"})
		return
	}

	window := 15 * time.Minute
	if v := r.URL.Query().Get("window_min"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1440 {
			window = time.Duration(n) * time.Minute
		}
	}
	writeJSON(w, http.StatusOK, perfCollector.Snapshot(time.Now().Add(-window), 10))
}
