package controllers

import (
	"net/http"

	"github.com/atelierhq/atelier-backend/api/responses"
	repairsvc "github.com/atelierhq/atelier-backend/internal/repairs"
	"github.com/atelierhq/atelier-backend/pkg/logger"
)

// DashboardStats aggregates ticket counts per status and delivered revenue.
func DashboardStats(svc repairsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}
