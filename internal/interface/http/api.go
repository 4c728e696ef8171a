package http

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	domproduct "example.com/catalog-admin/internal/domain/product"
	domuser "example.com/catalog-admin/internal/domain/user"
	"example.com/catalog-admin/internal/metrics"
	authuc "example.com/catalog-admin/internal/usecase/auth"
	currencyuc "example.com/catalog-admin/internal/usecase/currency"
	productuc "example.com/catalog-admin/internal/usecase/product"
)

type API struct {
	authSvc     *authuc.Service
	productSvc  *productuc.Service
	currencySvc *currencyuc.Service
	metrics     *metrics.Metrics
	logger      *zap.Logger
	templates   map[string]*template.Template

	cookieName     string
	secureCookie   bool
	tokenTTL       time.Duration
	publicAPI      bool
	allowedOrigins []string
}

type Dependencies struct {
	AuthService     *authuc.Service
	ProductService  *productuc.Service
	CurrencyService *currencyuc.Service
	Metrics         *metrics.Metrics
	Logger          *zap.Logger

	CookieName   string
	SecureCookie bool
	TokenTTL     time.Duration
	// PublicAPI serves /api/products without credentials, acting as
	// apiServiceActor.
	PublicAPI      bool
	AllowedOrigins []string
}

// apiServiceActor is the caller the public JSON API acts as.
var apiServiceActor = domuser.Actor{Name: "api", Tier: domuser.TierAdmin}

func NewAPI(deps Dependencies) *API {
	a := &API{
		authSvc:        deps.AuthService,
		productSvc:     deps.ProductService,
		currencySvc:    deps.CurrencyService,
		metrics:        deps.Metrics,
		logger:         deps.Logger,
		cookieName:     deps.CookieName,
		secureCookie:   deps.SecureCookie,
		tokenTTL:       deps.TokenTTL,
		publicAPI:      deps.PublicAPI,
		allowedOrigins: deps.AllowedOrigins,
	}
	if a.currencySvc == nil {
		a.currencySvc = currencyuc.NewService()
	}
	if a.metrics == nil {
		a.metrics = metrics.New()
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	if a.cookieName == "" {
		a.cookieName = "catalog_session"
	}
	if a.tokenTTL <= 0 {
		a.tokenTTL = 2 * time.Hour
	}
	a.templates = parseTemplates(a.currencySvc)
	return a
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(a.requestLogger)
	r.Use(chimw.Recoverer)
	r.Use(a.metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", a.metrics.Handler())

	r.Group(func(web chi.Router) {
		web.Use(a.identifyFromCookie)

		web.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/products/all", http.StatusFound)
		})
		web.Get("/login", a.handleLoginForm)
		web.Post("/login", a.handleLogin)
		web.Post("/logout", a.handleLogout)

		web.Route("/products", func(pr chi.Router) {
			pr.Get("/all", a.handleProductIndex)
			pr.Get("/create", a.handleProductCreateForm)
			pr.Post("/store", a.handleProductStore)
			pr.Get("/{id}/edit", a.handleProductEditForm)
			pr.Post("/{id}", a.handleProductUpdate)
			pr.Post("/{id}/delete", a.handleProductDelete)
		})
	})

	r.Route("/api", func(api chi.Router) {
		// Without configured origins no CORS headers are sent, so browsers
		// keep /api same-origin.
		if len(a.allowedOrigins) > 0 {
			api.Use(cors.Handler(cors.Options{
				AllowedOrigins: a.allowedOrigins,
				AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
				AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
				MaxAge:         300,
			}))
		}

		api.Get("/currency/convert", a.handleConvertCurrency)

		api.Group(func(pr chi.Router) {
			pr.Use(a.identifyAPI)
			pr.Get("/products", a.handleAPIListProducts)
			pr.With(chimw.AllowContentType("application/json")).Post("/products", a.handleAPICreateProduct)
			pr.Get("/products/{id}", a.handleAPIGetProduct)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func respondError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func parseIDParam(r *http.Request, key string) (int64, error) {
	idStr := chi.URLParam(r, key)
	return strconv.ParseInt(idStr, 10, 64)
}

// pageParam reads ?page=; anything unparsable is the first page.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func mapProduct(p *domproduct.Product) map[string]any {
	return map[string]any{
		"id":         p.ID,
		"name":       p.Name,
		"price":      p.Price,
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
	}
}

var errInternal = errors.New("internal server error")

// handleDomainError maps catalog errors onto JSON API responses.
func (a *API) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domproduct.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: verr.Error(), Details: verr.Fields})
	case errors.Is(err, domproduct.ErrInvalidInput):
		respondError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, domproduct.ErrProductNotFound):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, domuser.ErrUnauthenticated):
		respondError(w, http.StatusUnauthorized, err)
	case errors.Is(err, domuser.ErrForbidden):
		respondError(w, http.StatusForbidden, err)
	default:
		a.logger.Error("request failed",
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.Error(err),
		)
		respondError(w, http.StatusInternalServerError, errInternal)
	}
}
