// Package web serves the front-desk JSON API.
package web

import (
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"goodlife/internal/adapters/aidraft"
	"goodlife/internal/adapters/email"
	"goodlife/internal/adapters/http/middleware"
	"goodlife/internal/adapters/http/perf"
	"goodlife/internal/adapters/photostore"
	"goodlife/internal/application/orchestrators"
	"goodlife/internal/application/projections"
	"goodlife/internal/application/state"
	"goodlife/internal/config"
)

// RateLimitPerSecond controls the per-client rate limit. Tests can raise it.
var RateLimitPerSecond = 20

// Deps is everything the handlers reach for.
type Deps struct {
	Config    config.Config
	State     *state.Container
	Email     email.Sender
	Drafter   *aidraft.Drafter
	Photos    photostore.Store
	Collector *perf.Collector
	Sessions  *middleware.Sessions
	// Now and GenerateID default to time.Now and uuid.NewString.
	Now        func() time.Time
	GenerateID func() string
}

// Server holds the handler dependencies.
type Server struct {
	cfg        config.Config
	state      *state.Container
	email      email.Sender
	drafter    *aidraft.Drafter
	photos     photostore.Store
	collector  *perf.Collector
	sessions   *middleware.Sessions
	now        func() time.Time
	generateID func() string
	started    time.Time
}

// NewServer fills defaults for optional dependencies.
// PRE: deps.State is loaded
// POST: missing sender, drafter, photo store and session manager get local fallbacks
func NewServer(deps Deps) *Server {
	s := &Server{
		cfg:        deps.Config,
		state:      deps.State,
		email:      deps.Email,
		drafter:    deps.Drafter,
		photos:     deps.Photos,
		collector:  deps.Collector,
		sessions:   deps.Sessions,
		now:        deps.Now,
		generateID: deps.GenerateID,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.generateID == nil {
		s.generateID = uuid.NewString
	}
	if s.email == nil {
		s.email = email.NewNoopSender()
	}
	if s.drafter == nil {
		s.drafter = aidraft.NewDrafter(nil)
	}
	if s.photos == nil {
		s.photos = photostore.Inline{}
	}
	if s.collector != nil {
		s.email = timedSender{s.email, s.collector}
	}
	if s.sessions == nil {
		s.sessions = middleware.NewSessions(deps.Config.SessionSecret, 0, deps.Config.IsProduction())
	}
	s.started = s.now()
	return s
}

// Sessions exposes the session manager so the announcement poller can see how many are live.
func (s *Server) Sessions() *middleware.Sessions {
	return s.sessions
}

// Handler wires routes and the middleware stack.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)

	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Outermost first: SecurityHeaders -> Timing -> RateLimit -> Auth -> CSRF -> mux
	return middleware.Chain(mux,
		middleware.CSRF(s.cfg.CSRFKey, s.cfg.IsProduction(), trustedOrigins(s.cfg.PublicURL)),
		middleware.Auth(s.sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(s.collector),
		middleware.SecurityHeaders,
	)
}

func trustedOrigins(publicURL string) []string {
	origins := []string{"localhost:8080", "127.0.0.1:8080"}
	if u, err := url.Parse(publicURL); err == nil && u.Host != "" {
		origins = append(origins, u.Host)
	}
	return origins
}

// --- dependency bundles ---

func (s *Server) views() projections.Deps {
	return projections.Deps{State: s.state, Now: s.now}
}

func (s *Server) memberDeps() orchestrators.MemberDeps {
	return orchestrators.MemberDeps{State: s.state, Photos: s.photos, Email: s.email, GenerateID: s.generateID, Now: s.now}
}

func (s *Server) paymentDeps() orchestrators.PaymentDeps {
	return orchestrators.PaymentDeps{
		State:                 s.state,
		Photos:                s.photos,
		Email:                 s.email,
		CreateMemberOnConfirm: s.cfg.CreateMemberOnConfirm,
		GenerateID:            s.generateID,
		Now:                   s.now,
	}
}

func (s *Server) staffDeps() orchestrators.StaffDeps {
	return orchestrators.StaffDeps{State: s.state, GenerateID: s.generateID, Now: s.now}
}

func (s *Server) contentDeps() orchestrators.ContentDeps {
	return orchestrators.ContentDeps{State: s.state, GenerateID: s.generateID, Now: s.now}
}

func (s *Server) checkInDeps() orchestrators.CheckInDeps {
	return orchestrators.CheckInDeps{State: s.state, GenerateID: s.generateID, Now: s.now}
}

func (s *Server) shiftDeps() orchestrators.ShiftDeps {
	return orchestrators.ShiftDeps{State: s.state, GenerateID: s.generateID, Now: s.now}
}

func (s *Server) communicationDeps() orchestrators.CommunicationDeps {
	return orchestrators.CommunicationDeps{
		State:       s.state,
		Email:       s.email,
		Drafter:     s.drafter,
		Concurrency: s.cfg.BroadcastConcurrency,
		GenerateID:  s.generateID,
		Now:         s.now,
	}
}
