package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/communitydao/budget-backend/api/controllers"
	"github.com/communitydao/budget-backend/api/middleware"
	"github.com/communitydao/budget-backend/internal/governance"
	"github.com/communitydao/budget-backend/internal/proposals"
	"github.com/communitydao/budget-backend/internal/votes"
	"github.com/communitydao/budget-backend/pkg/config"
	"github.com/communitydao/budget-backend/pkg/logger"
	"github.com/communitydao/budget-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	governanceService governance.Service,
	proposalsService proposals.Service,
	voteMarkers votes.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Get("/", controllers.Root())

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		var store redis.IdempotencyStore
		if redisClient != nil {
			store = redisClient
		}
		r.Use(middleware.Idempotency(store, logg))

		r.Post("/budgets", controllers.BudgetCreate(governanceService, logg))
		r.Get("/budgets/{budgetId}", controllers.BudgetGet(governanceService, logg))

		r.Post("/proposals", controllers.ProposalCreate(governanceService, logg))
		r.Get("/proposals", controllers.ProposalList(proposalsService, logg))
		r.Get("/proposals/user/{address}", controllers.ProposalsByParticipant(proposalsService, logg))
		r.Get("/proposals/{proposalId}", controllers.ProposalGet(governanceService, logg))
		r.Post("/proposals/{proposalId}/vote", controllers.ProposalVote(governanceService, voteMarkers, logg))
		r.Get("/proposals/{proposalId}/voted/{address}", controllers.ProposalVoted(voteMarkers, logg))
	})

	r.Get("/logs", controllers.LogsList(governanceService, logg))

	return r
}
