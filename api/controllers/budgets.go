package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/communitydao/budget-backend/api/responses"
	"github.com/communitydao/budget-backend/api/validators"
	"github.com/communitydao/budget-backend/internal/governance"
	pkgerrors "github.com/communitydao/budget-backend/pkg/errors"
	"github.com/communitydao/budget-backend/pkg/logger"
)

// budgetCreateRequest accepts both wire shapes: the canonical four-field
// form and the historical {name, total} form.
type budgetCreateRequest struct {
	AdminCapID   string           `json:"adminCapId"`
	Name         string           `json:"name" validate:"required"`
	CoinObjectID string           `json:"coinObjectId"`
	Amount       *decimal.Decimal `json:"amount"`
	Total        *decimal.Decimal `json:"total"`
}

func (r budgetCreateRequest) toInput() (governance.CreateBudgetInput, error) {
	amount := r.Amount
	if amount == nil {
		amount = r.Total
	}
	if amount == nil {
		return governance.CreateBudgetInput{}, pkgerrors.New(pkgerrors.CodeValidation, "amount or total is required")
	}
	return governance.CreateBudgetInput{
		AdminCapID:   strings.TrimSpace(r.AdminCapID),
		Name:         validators.SanitizeString(r.Name, 200),
		CoinObjectID: strings.TrimSpace(r.CoinObjectID),
		AmountSui:    *amount,
	}, nil
}

// BudgetCreate submits a budget creation transaction.
func BudgetCreate(svc governance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req budgetCreateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.CreateBudget(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusCreated, result)
	}
}

// BudgetGet reads one budget's on-chain state.
func BudgetGet(svc governance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		budget, err := svc.GetBudget(r.Context(), chi.URLParam(r, "budgetId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, budget)
	}
}
