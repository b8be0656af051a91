package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/expensio/expense-backend-go/internal/domain/auth"
	"github.com/expensio/expense-backend-go/internal/domain/expense"
	"github.com/expensio/expense-backend-go/internal/handler/http/middleware"
	"github.com/expensio/expense-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ExpenseHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	SubmitDecision(w http.ResponseWriter, r *http.Request)
	Override(w http.ResponseWriter, r *http.Request)
}

type ExpenseHandlerImpl struct {
	expenseService expense.ExpenseService
}

func NewExpenseHandler(service expense.ExpenseService) ExpenseHandler {
	return &ExpenseHandlerImpl{expenseService: service}
}

// Create implements ExpenseHandler.
func (h *ExpenseHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	var req expense.CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Create expense decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.OwnerID = userID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := h.expenseService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Expense submitted", expense.ToResponse(created))
}

// Get implements ExpenseHandler.
func (h *ExpenseHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Expense ID is required", nil)
		return
	}

	exp, err := h.expenseService.GetByID(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, expense.ToResponse(exp))
}

// List implements ExpenseHandler.
func (h *ExpenseHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.expenseService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]expense.ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, expense.ToResponse(e))
	}
	response.Success(w, out)
}

// ListMine implements ExpenseHandler.
func (h *ExpenseHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	expenses, err := h.expenseService.ListByOwner(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	out := make([]expense.ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, expense.ToResponse(e))
	}
	response.Success(w, out)
}

// SubmitDecision implements ExpenseHandler.
func (h *ExpenseHandlerImpl) SubmitDecision(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	var req expense.SubmitDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ExpenseID = chi.URLParam(r, "id")
	req.UserID = userID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	status, err := h.expenseService.SubmitDecision(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]string{"status": string(status)})
}

// Override implements ExpenseHandler. Admin gating happens in the router.
func (h *ExpenseHandlerImpl) Override(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserID(r)
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	var req expense.OverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ExpenseID = chi.URLParam(r, "id")
	req.AdminID = adminID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	exp, err := h.expenseService.Override(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, expense.ToResponse(exp))
}
