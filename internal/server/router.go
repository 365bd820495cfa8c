// internal/server/router.go
//
// 路由註冊與 handler 分離：handler.go 定義「如何處理請求」，本檔定義「請求如何被導向」。
// 所有端點同時掛在 /api/v1 與根路徑下。
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router 建立完整的 HTTP 處理鏈。
func (s *Server) Router() http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Recoverer)
	root.Use(s.metrics.instrument)

	root.Route("/api/v1", s.routes)
	s.routes(root)

	return root
}

func (s *Server) routes(r chi.Router) {
	r.Get("/health", s.health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Post("/accounts", s.openAccount)
	r.Post("/sessions", s.login)

	r.Route("/accounts/{id}", func(r chi.Router) {
		r.Put("/pin", s.changePIN)

		r.Group(func(r chi.Router) {
			r.Use(s.requirePIN)
			r.Get("/", s.getAccount)
			r.Get("/transactions", s.transactions)
			r.Post("/payments", s.pay)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Get("/accounts", s.listAccounts)
		r.Delete("/accounts/{id}", s.deleteAccount)
		r.Post("/accounts/{id}/adjust", s.adjustBalance)
	})
}
