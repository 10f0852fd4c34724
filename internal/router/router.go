package router

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/auth-service/internal/handler"
	"github.com/Abdurahmanit/GroupProject/auth-service/internal/middleware"
	"github.com/Abdurahmanit/GroupProject/auth-service/internal/middleware/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// New configures the auth routes and the operational endpoints.
func New(authHandler *handler.AuthHandler, guard *middleware.SessionGuard, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger(logger))
	r.Use(metrics.Middleware)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("Hello World!"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/verify", authHandler.VerifyEmail)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Post("/forget-password", authHandler.ForgetPassword)
		r.Post("/reset-password/{token}", authHandler.ResetPassword)

		r.Group(func(authRouter chi.Router) {
			authRouter.Use(guard.Authenticate)
			authRouter.Get("/check-auth", authHandler.CheckAuth)
		})
	})

	return r
}
