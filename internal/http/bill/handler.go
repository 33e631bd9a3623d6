package bill

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/sharemal/internal/bill"
	"github.com/MrJamesThe3rd/sharemal/internal/http/response"
)

type Handler struct {
	svc      *bill.Service
	validate *validator.Validate
}

func NewHandler(svc *bill.Service) *Handler {
	return &Handler{
		svc:      svc,
		validate: newValidator(),
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/search", h.search)
	r.Get("/status/{status}", h.listByStatus)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.get)
		r.Put("/", h.update)
		r.Delete("/", h.delete)
		r.Patch("/pay", h.togglePayment)
		r.Put("/status", h.recomputeStatus)
		r.Get("/participants", h.billParticipants)
		r.Get("/participants/{participantID}", h.getParticipant)
		r.Put("/participants/{participantID}/payment", h.setPayment)
	})
}

// ParticipantRoutes serves participants across all bills.
func (h *Handler) ParticipantRoutes(r chi.Router) {
	r.Get("/", h.listParticipants)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Decode(w, err)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.Validation(w, err)
		return
	}

	params, err := req.params()
	if err != nil {
		response.Validation(w, err)
		return
	}

	b, err := h.svc.Create(r.Context(), params)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, ToResponse(b))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := bill.ListFilter{Title: r.URL.Query().Get("title")}

	if s := r.URL.Query().Get("status"); s != "" {
		status, err := parseStatus(s)
		if err != nil {
			response.Validation(w, err)
			return
		}

		filter.Status = &status
	}

	h.writeList(w, r, filter)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	title := strings.TrimSpace(r.URL.Query().Get("title"))
	if title == "" {
		response.Validation(w, errors.New("title query parameter is required"))
		return
	}

	h.writeList(w, r, bill.ListFilter{Title: title})
}

func (h *Handler) listByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := parseStatus(chi.URLParam(r, "status"))
	if err != nil {
		response.Validation(w, err)
		return
	}

	h.writeList(w, r, bill.ListFilter{Status: &status})
}

func (h *Handler) writeList(w http.ResponseWriter, r *http.Request, filter bill.ListFilter) {
	bills, err := h.svc.List(r.Context(), filter)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponseList(bills))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	b, err := h.svc.Get(r.Context(), id)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, ToResponse(b))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Decode(w, err)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.Validation(w, err)
		return
	}

	params, err := req.params()
	if err != nil {
		response.Validation(w, err)
		return
	}

	b, err := h.svc.Update(r.Context(), id, params)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, ToResponse(b))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		response.Error(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) togglePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	participantID, err := uuid.Parse(r.URL.Query().Get("participant_id"))
	if err != nil {
		response.Validation(w, errors.New("participant_id query parameter must be a valid id"))
		return
	}

	b, err := h.svc.TogglePayment(r.Context(), id, participantID)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, ToResponse(b))
}

func (h *Handler) recomputeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	b, err := h.svc.RecomputeStatus(r.Context(), id)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, ToResponse(b))
}

func (h *Handler) billParticipants(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	// A missing bill is a 404, not an empty list.
	if _, err := h.svc.Get(r.Context(), id); err != nil {
		response.Error(w, r, err)
		return
	}

	participants, err := h.svc.ListParticipants(r.Context(), bill.ParticipantFilter{BillID: &id})
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, toParticipantList(participants))
}

func (h *Handler) getParticipant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	participantID, ok := pathID(w, r, "participantID")
	if !ok {
		return
	}

	p, err := h.svc.GetParticipant(r.Context(), id, participantID)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, toParticipantResponse(p))
}

func (h *Handler) setPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	participantID, ok := pathID(w, r, "participantID")
	if !ok {
		return
	}

	var req setPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Decode(w, err)
		return
	}

	req.PaymentStatus = bill.PaymentStatus(strings.ToUpper(string(req.PaymentStatus)))

	if err := h.validate.Struct(req); err != nil {
		response.Validation(w, err)
		return
	}

	b, err := h.svc.SetPaymentStatus(r.Context(), id, participantID, req.PaymentStatus)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, ToResponse(b))
}

func (h *Handler) listParticipants(w http.ResponseWriter, r *http.Request) {
	var filter bill.ParticipantFilter

	if s := r.URL.Query().Get("payment_status"); s != "" {
		status := bill.PaymentStatus(strings.ToUpper(s))
		if !status.Valid() {
			response.Validation(w, fmt.Errorf("unknown payment status %q", s))
			return
		}

		filter.PaymentStatus = &status
	}

	if s := r.URL.Query().Get("bill_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			response.Validation(w, errors.New("bill_id query parameter must be a valid id"))
			return
		}

		filter.BillID = &id
	}

	participants, err := h.svc.ListParticipants(r.Context(), filter)
	if err != nil {
		response.Error(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, toParticipantList(participants))
}

func parseStatus(s string) (bill.Status, error) {
	status := bill.Status(strings.ToUpper(s))
	if !status.Valid() {
		return "", fmt.Errorf("unknown bill status %q", s)
	}

	return status, nil
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		response.Validation(w, fmt.Errorf("invalid %s", param))
		return uuid.Nil, false
	}

	return id, true
}
