package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andresfontal/voltio-backend/api/controllers"
	"github.com/andresfontal/voltio-backend/api/middleware"
	"github.com/andresfontal/voltio-backend/internal/auth"
	"github.com/andresfontal/voltio-backend/internal/cart"
	"github.com/andresfontal/voltio-backend/internal/catalog"
	"github.com/andresfontal/voltio-backend/internal/dashboard"
	"github.com/andresfontal/voltio-backend/internal/sales"
	sessionholder "github.com/andresfontal/voltio-backend/internal/session"
	"github.com/andresfontal/voltio-backend/pkg/auth/session"
	"github.com/andresfontal/voltio-backend/pkg/config"
	"github.com/andresfontal/voltio-backend/pkg/db"
	"github.com/andresfontal/voltio-backend/pkg/enums"
	"github.com/andresfontal/voltio-backend/pkg/logger"
	pkgredis "github.com/andresfontal/voltio-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	sessionChecker session.AccessSessionChecker,
	currentUserHolder *sessionholder.Holder,
	authService auth.Service,
	registerService auth.RegisterService,
	catalogService catalog.Service,
	cartService cart.Service,
	salesService sales.Service,
	dashboardService dashboard.Service,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]pkgredis.Pinger{
			"postgres": dbP,
			"redis":    redisClient,
		}))
	})

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/login", controllers.AuthLogin(authService, logg))
		r.With(
			middleware.AuthRateLimit(registerPolicy, redisClient, logg),
			middleware.Idempotency(redisClient, logg),
		).Post("/register", controllers.Register(registerService, logg))
		if !cfg.App.IsProd() {
			r.Post("/register/staff", controllers.RegisterStaff(registerService, logg))
		}
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
	})

	// Storefront browse endpoints stay public so anonymous shoppers can look
	// around before signing in.
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ProductsList(catalogService, logg))
		r.Get("/products/{productID}", controllers.ProductGet(catalogService, logg))
		r.Get("/categories", controllers.CategoriesList(catalogService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessionChecker, logg))
			r.Use(middleware.Idempotency(redisClient, logg))

			r.Post("/auth/logout", controllers.AuthLogout(authService, logg))
			r.Get("/session/current", controllers.SessionCurrent(currentUserHolder, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(cartService, logg))
				r.Post("/items", controllers.CartAdd(cartService, logg))
				r.Put("/items", controllers.CartSetQuantity(cartService, logg))
				r.Delete("/items", controllers.CartRemove(cartService, logg))
			})

			r.Post("/checkout", controllers.Checkout(salesService, logg))
			r.Get("/dashboard/customer", controllers.DashboardCustomer(dashboardService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStaff(logg))
				r.Post("/sales", controllers.SalesCreate(salesService, logg))
				r.Get("/sales", controllers.SalesList(salesService, logg))
				r.Post("/products", controllers.ProductCreate(catalogService, logg))
				r.Put("/products/{productID}", controllers.ProductUpdate(catalogService, logg))
				r.Delete("/products/{productID}", controllers.ProductDelete(catalogService, logg))
				r.Post("/products/{productID}/stock", controllers.ProductAdjustStock(catalogService, logg))
				r.Get("/dashboard/seller", controllers.DashboardSeller(dashboardService, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleAdmin, logg))
				r.Get("/dashboard/admin", controllers.DashboardAdmin(dashboardService, logg))
			})
		})
	})

	return r
}
