package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"choreboard/internal/handler"
	"choreboard/internal/middleware"
	"choreboard/internal/store"
	ws "choreboard/internal/websocket"
)

// Options tune server construction. Now and Rng exist so tests can pin
// the clock and the schedule generator's child draw; both default to
// the real thing.
type Options struct {
	Now func() time.Time
	Rng *rand.Rand
}

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	authH       *handler.AuthHandler
	householdH  *handler.HouseholdHandler
	childH      *handler.ChildHandler
	choreH      *handler.ChoreHandler
	assignmentH *handler.AssignmentHandler
	prizeH      *handler.PrizeHandler
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger, opts Options) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	householdStore := store.NewHouseholdStore(db)
	childStore := store.NewChildStore(db)
	choreStore := store.NewChoreStore(db)
	assignmentStore := store.NewAssignmentStore(db)
	prizeStore := store.NewPrizeStore(db)

	return &Server{
		db:          db,
		hub:         hub,
		authH:       handler.NewAuthHandler(householdStore, logger.With("component", "auth")),
		householdH:  handler.NewHouseholdHandler(householdStore, hub, logger.With("component", "household")),
		childH:      handler.NewChildHandler(childStore, householdStore, hub, logger.With("component", "child")),
		choreH:      handler.NewChoreHandler(choreStore, hub, logger.With("component", "chore"), opts.Now, opts.Rng),
		assignmentH: handler.NewAssignmentHandler(assignmentStore, hub, logger.With("component", "assignment"), opts.Now),
		prizeH:      handler.NewPrizeHandler(prizeStore, hub, logger.With("component", "prize")),
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// Credential endpoints get a rate limit; everything else is open.
	// Session design is out of scope — the client scopes requests by
	// the household_id it gets back from login.
	mux.HandleFunc("POST /login", s.rateLimited(s.authH.Login))
	mux.HandleFunc("POST /households", s.rateLimited(s.householdH.Register))

	mux.HandleFunc("GET /households", s.householdH.List)
	mux.HandleFunc("GET /households/{id}", s.householdH.Get)
	mux.HandleFunc("PUT /households/{id}", s.householdH.Update)
	mux.HandleFunc("DELETE /households/{id}", s.householdH.Delete)

	mux.HandleFunc("POST /child", s.childH.Create)
	mux.HandleFunc("GET /children", s.childH.List)
	mux.HandleFunc("GET /children/{id}", s.childH.Get)
	mux.HandleFunc("PUT /children/{id}", s.childH.Update)
	mux.HandleFunc("DELETE /children/{id}", s.childH.Delete)

	mux.HandleFunc("POST /chores", s.choreH.Create)
	mux.HandleFunc("GET /chores", s.choreH.List)
	mux.HandleFunc("GET /chores/today", s.assignmentH.Today)
	mux.HandleFunc("GET /chores/{id}", s.choreH.Get)
	mux.HandleFunc("PUT /chores/{id}", s.choreH.Update)
	mux.HandleFunc("DELETE /chores/{id}", s.choreH.Delete)

	mux.HandleFunc("POST /chore-assignments", s.assignmentH.Create)
	mux.HandleFunc("GET /chore-assignments", s.assignmentH.List)
	mux.HandleFunc("GET /chore-assignments/{id}", s.assignmentH.Get)
	mux.HandleFunc("PUT /chore-assignments/{id}", s.assignmentH.Update)
	mux.HandleFunc("DELETE /chore-assignments/{id}", s.assignmentH.Delete)
	mux.HandleFunc("PUT /chore-assignments/{id}/complete", s.assignmentH.Complete)

	mux.HandleFunc("POST /prizes", s.prizeH.Create)
	mux.HandleFunc("GET /prizes", s.prizeH.List)
	mux.HandleFunc("GET /prizes/{id}", s.prizeH.Get)
	mux.HandleFunc("PUT /prizes/{id}", s.prizeH.Update)
	mux.HandleFunc("DELETE /prizes/{id}", s.prizeH.Delete)

	mux.HandleFunc("GET /ws", ws.Handle(s.hub, s.logger.With("component", "websocket")))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimited(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
