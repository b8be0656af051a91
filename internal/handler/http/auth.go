package http

import (
	"encoding/json"
	"net/http"

	"github.com/expensio/expense-backend-go/internal/domain/auth"
	"github.com/expensio/expense-backend-go/internal/handler/http/response"
	authService "github.com/expensio/expense-backend-go/internal/service/auth"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService *authService.Service
}

func NewAuthHandler(service *authService.Service) AuthHandler {
	return &AuthHandlerImpl{authService: service}
}

// Login implements AuthHandler.
func (h *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	res, err := h.authService.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, res)
}
