package main

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/crucial707/pwasset/internal/auth"
	"github.com/crucial707/pwasset/internal/authz"
	"github.com/crucial707/pwasset/internal/config"
	"github.com/crucial707/pwasset/internal/handlers"
	"github.com/crucial707/pwasset/internal/ledger"
	"github.com/crucial707/pwasset/internal/middleware"
	"github.com/crucial707/pwasset/internal/repo"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// routeSet is everything the route table needs, built once per router.
type routeSet struct {
	auth      *handlers.AuthHandler
	ledger    *handlers.LedgerHandler
	reference *handlers.ReferenceHandler
	audit     *handlers.AuditHandler
	health    *handlers.HealthHandler
	gate      func(http.Handler) http.Handler
	loginRate *middleware.IPRateLimiter
}

func newRouter(db *sql.DB, cfg config.Config) http.Handler {
	userRepo := repo.NewUserRepo(db)
	parkRepo := repo.NewParkRepo(db)
	auditRepo := repo.NewAuditRepo(db)

	expireHours := cfg.JWTExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}
	rememberDays := cfg.JWTRememberDays
	if rememberDays <= 0 {
		rememberDays = 7
	}
	tokens := &auth.Tokens{
		Secret:   []byte(cfg.JWTSecret),
		TTL:      time.Duration(expireHours) * time.Hour,
		Remember: time.Duration(rememberDays) * 24 * time.Hour,
	}

	core := ledger.New(ledger.Deps{
		Assets:    repo.NewAssetRepo(db),
		Transfers: repo.NewTransferRepo(db),
		Disposals: repo.NewDisposalRepo(db),
		Parks:     parkRepo,
		Audit:     auditRepo,
		Policy:    authz.New(cfg.EnforceParkScope),
		Logger:    slog.Default(),
	})
	errs := handlers.ErrorResponder{Expose: cfg.ExposeErrors}

	rs := routeSet{
		auth: &handlers.AuthHandler{
			Users:          userRepo,
			Hasher:         auth.NewHasher(),
			Tokens:         tokens,
			Parks:          parkRepo,
			ErrorResponder: errs,
		},
		ledger:    &handlers.LedgerHandler{Core: core, ErrorResponder: errs},
		reference: &handlers.ReferenceHandler{Areas: repo.NewAreaRepo(db), Parks: parkRepo, ErrorResponder: errs},
		audit:     &handlers.AuditHandler{Log: core, ErrorResponder: errs},
		health:    &handlers.HealthHandler{DB: db},
		gate:      middleware.SessionGate(tokens, userRepo),
		loginRate: middleware.AuthRateLimiter(),
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.BodyLimit(int64(cfg.MaxBodyBytes)))

	r.Handle("/metrics", promhttp.Handler())

	// The web client calls everything under /api; direct clients use the bare paths.
	rs.mount(r)
	r.Route("/api", rs.mount)

	return r
}

func (rs routeSet) mount(r chi.Router) {
	r.Get("/health", rs.health.Health)
	r.Get("/ready", rs.health.Ready)
	r.With(rs.loginRate.Middleware).Post("/login", rs.auth.Login)

	r.Group(func(r chi.Router) {
		r.Use(rs.gate)

		r.Get("/profile", rs.auth.Profile)
		r.Get("/areas", rs.reference.ListAreas)
		r.Get("/parks", rs.reference.ListParks)
		r.Get("/audit", rs.audit.ListAudit)

		r.Get("/assets", rs.ledger.ListAssets)
		r.Post("/assets/add", rs.ledger.AddAsset)
		r.Post("/assets/update", rs.ledger.UpdateAsset)
		r.Post("/assets/delete", rs.ledger.DeleteAsset)

		r.Get("/transfers", rs.ledger.ListTransfers)
		r.Post("/transfers/add", rs.ledger.AddTransfer)
		r.Post("/transfers/update", rs.ledger.UpdateTransfer)
		r.Post("/transfers/delete", rs.ledger.DeleteTransfer)

		r.Get("/disposals", rs.ledger.ListDisposals)
		r.Post("/disposals/add", rs.ledger.AddDisposal)
		r.Post("/disposals/update", rs.ledger.UpdateDisposal)
		r.Post("/disposals/delete", rs.ledger.DeleteDisposal)
	})
}
