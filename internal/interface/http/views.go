package http

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	domproduct "example.com/catalog-admin/internal/domain/product"
	domuser "example.com/catalog-admin/internal/domain/user"
	currencyuc "example.com/catalog-admin/internal/usecase/currency"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{"products_index.html", "product_form.html", "login.html", "error.html"}

func parseTemplates(converter *currencyuc.Service) map[string]*template.Template {
	funcs := template.FuncMap{
		"formatPrice": domproduct.FormatPrice,
		"euro": func(usd float64) string {
			return domproduct.FormatPrice(converter.Convert(usd, currencyuc.USD, currencyuc.EUR))
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}

	set := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		set[page] = template.Must(template.New(page).Funcs(funcs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+page))
	}
	return set
}

type productIndexView struct {
	Actor domuser.Actor
	Page  *domproduct.Page
}

type productFormView struct {
	Actor  domuser.Actor
	Title  string
	Action string
	Name   string
	Price  string
	Errors map[string]string
}

type loginView struct {
	Actor domuser.Actor
	Email string
	Error string
}

type errorView struct {
	Actor   domuser.Actor
	Status  int
	Message string
}

func (a *API) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	var buf bytes.Buffer
	if err := a.templates[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		a.logger.Error("render template",
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.String("template", page),
			zap.Error(err),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (a *API) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	a.render(w, r, status, "error.html", errorView{
		Actor:   actorFrom(r.Context()),
		Status:  status,
		Message: message,
	})
}

// handleWebError maps catalog errors onto browser responses: anonymous
// callers are sent to the login page, everything else gets an error page.
func (a *API) handleWebError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domuser.ErrUnauthenticated):
		http.Redirect(w, r, "/login", http.StatusFound)
	case errors.Is(err, domuser.ErrForbidden):
		a.renderError(w, r, http.StatusForbidden, "This action is unauthorized.")
	case errors.Is(err, domproduct.ErrProductNotFound):
		a.renderError(w, r, http.StatusNotFound, "Not found.")
	default:
		a.logger.Error("request failed",
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.Error(err),
		)
		a.renderError(w, r, http.StatusInternalServerError, "Server error.")
	}
}
