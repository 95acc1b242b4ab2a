package http

import (
	"errors"
	"net/http"

	"github.com/spendwise-app/spendwise/internal/spendwise/domain"
	"github.com/spendwise-app/spendwise/internal/spendwise/service"
	"github.com/spendwise-app/spendwise/pkg/httpx"
	"github.com/spendwise-app/spendwise/pkg/idx"
)

// Both record collections share one handler parameterized by kind; the
// routes and semantics are identical.
func (rt *Router) registerRecords() {
	for _, h := range []recordHandler{
		{router: rt, kind: domain.KindExpense, prefix: "/expense", label: "Expense"},
		{router: rt, kind: domain.KindIncome, prefix: "/income", label: "Income"},
	} {
		rt.Mux.Handle("POST "+h.prefix, rt.protected(http.HandlerFunc(h.create)))
		rt.Mux.Handle("GET "+h.prefix+"/all", rt.protected(http.HandlerFunc(h.list)))
		rt.Mux.Handle("GET "+h.prefix+"/{id}", rt.protected(http.HandlerFunc(h.get)))
		rt.Mux.Handle("PUT "+h.prefix+"/{id}", rt.protected(http.HandlerFunc(h.update)))
		rt.Mux.Handle("DELETE "+h.prefix+"/{id}", rt.protected(http.HandlerFunc(h.delete)))
	}
}

type recordHandler struct {
	router *Router
	kind   domain.Kind
	prefix string
	label  string
}

type recordRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	Date        domain.Date `json:"date"`
	Amount      int64       `json:"amount"`
}

func (req recordRequest) record() domain.Record {
	return domain.Record{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Date:        req.Date,
		Amount:      req.Amount,
	}
}

// create godoc
//
//	@Summary	Create a record
//	@Tags		Records
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		recordRequest	true	"New record"
//	@Success	201		{object}	domain.Record
//	@Failure	400		{object}	errorResponse	"Missing title, amount or date"
//	@Router		/expense [post].
func (h recordHandler) create(w http.ResponseWriter, r *http.Request) {
	user, ok := h.router.sessionUser(w, r)
	if !ok {
		return
	}

	var req recordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Malformed request body")
		return
	}

	rec, err := h.router.Records.Create(r.Context(), h.kind, user.ID, req.record())
	if err != nil {
		if errors.Is(err, service.ErrInvalidRecord) {
			writeError(w, r, http.StatusBadRequest, "Title, amount and date are required")
			return
		}
		writeInternal(w, r, err, "Failed to create "+h.prefix[1:])
		return
	}
	httpx.WriteJSON(w, r, http.StatusCreated, rec)
}

// list godoc
//
//	@Summary	List all of the account's records in a collection
//	@Tags		Records
//	@Security	BearerAuth
//	@Produce	json
//	@Success	200	{array}	domain.Record
//	@Router		/expense/all [get].
func (h recordHandler) list(w http.ResponseWriter, r *http.Request) {
	user, ok := h.router.sessionUser(w, r)
	if !ok {
		return
	}

	recs, err := h.router.Records.List(r.Context(), h.kind, user.ID)
	if err != nil {
		writeInternal(w, r, err, "Failed to fetch "+h.prefix[1:]+"s")
		return
	}
	httpx.NoCache(w)
	httpx.WriteJSON(w, r, http.StatusOK, recs)
}

// get godoc
//
//	@Summary	Fetch one record by id
//	@Tags		Records
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path		string	true	"Record id"
//	@Success	200	{object}	domain.Record
//	@Failure	404	{object}	errorResponse
//	@Router		/expense/{id} [get].
func (h recordHandler) get(w http.ResponseWriter, r *http.Request) {
	user, ok := h.router.sessionUser(w, r)
	if !ok {
		return
	}
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}

	rec, err := h.router.Records.Get(r.Context(), h.kind, user.ID, id)
	if err != nil {
		h.writeRecordError(w, r, err)
		return
	}
	httpx.NoCache(w)
	httpx.WriteJSON(w, r, http.StatusOK, rec)
}

// update godoc
//
//	@Summary	Replace a record's fields
//	@Tags		Records
//	@Security	BearerAuth
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string			true	"Record id"
//	@Param		request	body		recordRequest	true	"New field values"
//	@Success	200		{object}	domain.Record
//	@Failure	404		{object}	errorResponse
//	@Router		/expense/{id} [put].
func (h recordHandler) update(w http.ResponseWriter, r *http.Request) {
	user, ok := h.router.sessionUser(w, r)
	if !ok {
		return
	}
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}

	var req recordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Malformed request body")
		return
	}

	rec, err := h.router.Records.Update(r.Context(), h.kind, user.ID, id, req.record())
	if err != nil {
		if errors.Is(err, service.ErrInvalidRecord) {
			writeError(w, r, http.StatusBadRequest, "Title, amount and date are required")
			return
		}
		h.writeRecordError(w, r, err)
		return
	}
	httpx.WriteJSON(w, r, http.StatusOK, rec)
}

// delete godoc
//
//	@Summary	Delete a record
//	@Tags		Records
//	@Security	BearerAuth
//	@Produce	json
//	@Param		id	path	string	true	"Record id"
//	@Success	200
//	@Failure	404	{object}	errorResponse
//	@Router		/expense/{id} [delete].
func (h recordHandler) delete(w http.ResponseWriter, r *http.Request) {
	user, ok := h.router.sessionUser(w, r)
	if !ok {
		return
	}
	id, ok := h.recordID(w, r)
	if !ok {
		return
	}

	if err := h.router.Records.Delete(r.Context(), h.kind, user.ID, id); err != nil {
		h.writeRecordError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// recordID parses the {id} path segment. Unparseable ids behave like
// missing records so probing with garbage is indistinguishable from
// probing with someone else's id.
func (h recordHandler) recordID(w http.ResponseWriter, r *http.Request) (idx.ID, bool) {
	id, err := idx.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, r, http.StatusNotFound, h.label+" not found")
		return idx.Zero, false
	}
	return id, true
}

func (h recordHandler) writeRecordError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrRecordNotFound) {
		writeError(w, r, http.StatusNotFound, h.label+" not found")
		return
	}
	writeInternal(w, r, err, "Something went wrong")
}
