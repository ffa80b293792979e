package wire

import (
	"net/http"

	"studio-booking/internal/adaptor"
	"studio-booking/internal/data/repository"
	"studio-booking/internal/usecase"
	"studio-booking/pkg/mailer"
	"studio-booking/pkg/metrics"
	"studio-booking/pkg/middleware"
	"studio-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// App holds the wired HTTP surface.
type App struct {
	Router *chi.Mux
}

// Wiring initializes services, handlers and routes.
func Wiring(
	repo *repository.Repository,
	config *utils.Config,
	sender mailer.Sender,
	m *metrics.Metrics,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, config, sender, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, m, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	m *metrics.Metrics,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.Metrics(m))

	// Apply routes
	wireAuth(r, handler.Auth, repo, logger)
	wireUser(r, handler.User, repo, logger)
	wireEvent(r, handler.Event, repo, logger)
	wireBooking(r, handler.Booking, repo, logger)
	wireBlock(r, handler.Block, repo, logger)
	wireWaitingList(r, handler.WaitingList, repo, logger)
	wireTicket(r, handler.Ticket, repo, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus scrape endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}
