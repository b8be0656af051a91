package http

import (
	"encoding/json"
	"net/http"

	"github.com/expensio/expense-backend-go/internal/domain/rules"
	"github.com/expensio/expense-backend-go/internal/handler/http/response"
)

type RulesHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
}

type RulesHandlerImpl struct {
	rulesService rules.RuleSetService
}

func NewRulesHandler(service rules.RuleSetService) RulesHandler {
	return &RulesHandlerImpl{rulesService: service}
}

func toRuleSetResponse(rs rules.RuleSet) rules.RuleSetResponse {
	return rules.RuleSetResponse{
		Steps:            rs.Steps,
		Percentage:       rs.Percentage,
		SpecificApprover: rs.SpecificApprover,
		Hybrid:           rs.Hybrid,
		UpdatedAt:        rs.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Get implements RulesHandler.
func (h *RulesHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	rs, err := h.rulesService.Get(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toRuleSetResponse(rs))
}

// Update implements RulesHandler.
func (h *RulesHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req rules.UpdateRuleSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	rs, err := h.rulesService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, toRuleSetResponse(rs))
}
