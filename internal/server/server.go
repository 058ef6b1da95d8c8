// Package server CrowdHive
//
// The CrowdHive gateway provides access to Hive wallet, accounts and crowdfunding projects.
//
//     Schemes: http
//     BasePath: /v1
//     Version: 1.0.0
//
//     Produces:
//     - application/json
//     Consumes:
//     - application/json
//
// swagger:meta
package server

import (
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"

	"github.com/crowdhive/crowdhive/internal/metrics"
	mm "github.com/crowdhive/crowdhive/internal/middleware"
	"github.com/crowdhive/crowdhive/internal/service"
	"github.com/crowdhive/crowdhive/internal/session"
)

const (
	maxBodySize   = 64 * 1024
	projectsTTL   = 30 * time.Second
	projectsCache = "projects"
)

// Services is a set of services exposed by the gateway.
type Services struct {
	Session      *session.Store
	Wallet       service.Wallet
	Accounts     service.Accounts
	Projects     service.Projects
	Transactions service.Transactions
	Bookmarks    service.Bookmarks
	Drafts       service.Drafts
}

type server struct {
	Services
}

// SetupRouter setups handlers to chi router.
func SetupRouter(s Services, r chi.Router, timeout time.Duration, m metrics.Metrics) {
	r.Use(
		middleware.RequestID,
		mm.Logger,
		middleware.StripSlashes,
		cors.AllowAll().Handler,
		middleware.Recoverer,
		middleware.Timeout(timeout),
		mm.BodyLimiter(maxBodySize),
	)

	srv := server{
		Services: s,
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/wallet", srv.getWallet)
		r.Post("/wallet/login", srv.login)
		r.Post("/wallet/logout", srv.logout)
		r.Post("/wallet/refresh", srv.refresh)

		r.Get("/account", srv.getCachedAccount)
		r.Get("/accounts/{username}", srv.getAccount)
		r.Get("/accounts/{username}/exists", srv.accountExists)
		r.Get("/accounts/{username}/transfers", srv.listTransfers)

		r.Get("/projects", mm.Cached(projectsCache, projectsTTL, m, srv.listProjects))
		r.Post("/projects", srv.createProject)
		r.Get("/projects/{author}/{permlink}", srv.getProject)
		r.Get("/projects/{author}/{permlink}/contributors", srv.listContributors)

		r.Post("/transfers", srv.sendTokens)
		r.Get("/price", srv.getPrice)
		r.Get("/explorer/{txID}", srv.getExplorerURL)

		r.Get("/bookmarks", srv.listBookmarks)
		r.Put("/bookmarks/{id}", srv.toggleBookmark)

		r.Get("/drafts", srv.listDrafts)
		r.Post("/drafts", srv.createDraft)
		r.Get("/drafts/{id}", srv.getDraft)
		r.Put("/drafts/{id}", srv.saveDraft)
		r.Delete("/drafts/{id}", srv.deleteDraft)
		r.Post("/drafts/{id}/submit", srv.submitDraft)
	})
}
