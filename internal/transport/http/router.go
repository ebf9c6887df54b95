package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wanderlist-app/auth-service/internal/service"
	"github.com/wanderlist-app/auth-service/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
		middleware.Metrics(),            // per-route метрики
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	h := NewHandlers(svc)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, svc, h)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, svc, h)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
// Guard'ы привязаны к группам: access- и refresh-токены проверяются
// против разных секретов и взаимно непригодны.
func registerRoutes(r chi.Router, svc *service.Service, h *Handlers) {
	// public
	r.Post("/auth/signup", h.SignUp)
	r.Post("/auth/signin", h.SignIn)

	// access-токен
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.AccessGuard(svc))
		pr.Get("/auth/signout", h.SignOut)
		pr.Get("/users/{id}", h.Profile)
		pr.Patch("/users/{id}", h.UpdateProfile)
	})

	// refresh-токен
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RefreshGuard(svc))
		pr.Get("/auth/refresh", h.Refresh)
	})
}
