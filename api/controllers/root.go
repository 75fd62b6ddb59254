package controllers

import (
	"net/http"

	"github.com/communitydao/budget-backend/api/responses"
)

// Root is the public liveness ping the frontend probes on load.
func Root() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{
			"ok":      true,
			"message": "community budget backend",
		})
	}
}
