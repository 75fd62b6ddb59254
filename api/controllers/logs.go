package controllers

import (
	"net/http"

	"github.com/communitydao/budget-backend/api/responses"
	"github.com/communitydao/budget-backend/api/validators"
	"github.com/communitydao/budget-backend/internal/governance"
	"github.com/communitydao/budget-backend/pkg/logger"
)

const defaultLogLimit = 50

// LogsList returns the most recent spend records, newest first.
func LogsList(svc governance.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", defaultLogLimit, 1, defaultLogLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		events, err := svc.ListSpendingEvents(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, events)
	}
}
