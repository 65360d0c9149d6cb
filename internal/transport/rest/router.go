package rest

import (
	"database/sql"
	"log/slog"

	"github.com/egresosapp/egresos-api/internal/auth"
	"github.com/egresosapp/egresos-api/internal/budget"
	"github.com/egresosapp/egresos-api/internal/category"
	"github.com/egresosapp/egresos-api/internal/expense"
	"github.com/egresosapp/egresos-api/internal/transport/middleware"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// RegisterAllRoutes wires every handler under /api. The egresos subtree
// keeps the tipos-egreso and presupuesto endpoints nested the way API
// consumers expect them.
func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	authHandler *auth.Handler,
	expenseHandler *expense.Handler,
	categoryHandler *category.Handler,
	budgetHandler *budget.Handler,
	allowedOrigins string,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/health", healthHandler.healthCheckHandler)
	router.Get("/ping", healthHandler.pingHandler)

	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/register", authHandler.Register)
			sr.Post("/login", authHandler.Login)
			sr.Post("/refresh", authHandler.RefreshToken)
			sr.Post("/logout", authHandler.Logout)

			sr.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)
				pr.Get("/me", authHandler.Me)
				pr.Put("/profile", authHandler.UpdateProfile)
				pr.Post("/change-password", authHandler.ChangePassword)
			})
		})

		r.Route("/egresos", func(er chi.Router) {
			er.Use(authHandler.AuthMiddleware)

			er.Get("/tipos-egreso", categoryHandler.GetTipos)
			er.Get("/tipos-egreso/con-categorias", categoryHandler.GetTiposConCategorias)

			er.Get("/mes", expenseHandler.GetMonth)
			er.Get("/estadisticas-mes", expenseHandler.MonthlyStats)
			er.Get("/reporte-anual", expenseHandler.AnnualReport)

			er.Get("/presupuesto/mensual", budgetHandler.GetMonthly)
			er.Put("/presupuesto/mensual", budgetHandler.SetMonthly)

			er.Get("/", expenseHandler.List)
			er.Post("/", expenseHandler.Create)
			er.Put("/{id}", expenseHandler.Update)
			er.Delete("/{id}", expenseHandler.Delete)
			er.Post("/{id}/pago-parcial", expenseHandler.PartialPayment)
		})
	})
}
