package http

import (
	"encoding/json"
	"net/http"

	"github.com/expensio/expense-backend-go/internal/domain/role"
	"github.com/expensio/expense-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type RoleHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Add(w http.ResponseWriter, r *http.Request)
	Remove(w http.ResponseWriter, r *http.Request)
}

type RoleHandlerImpl struct {
	registry role.RegistryService
}

func NewRoleHandler(registry role.RegistryService) RoleHandler {
	return &RoleHandlerImpl{registry: registry}
}

// List implements RoleHandler.
func (h *RoleHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.registry.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, role.ListRolesResponse{Roles: roles})
}

// Add implements RoleHandler.
func (h *RoleHandlerImpl) Add(w http.ResponseWriter, r *http.Request) {
	var req role.AddRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	name, err := h.registry.AddCustom(r.Context(), req.Name)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Role created", map[string]string{"name": name})
}

// Remove implements RoleHandler.
func (h *RoleHandlerImpl) Remove(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name == "" {
		response.BadRequest(w, "Role name is required", nil)
		return
	}

	if err := h.registry.RemoveCustom(r.Context(), name); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, nil)
}
