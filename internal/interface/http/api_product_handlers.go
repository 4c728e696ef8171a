package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	domproduct "example.com/catalog-admin/internal/domain/product"
)

func (a *API) handleAPIListProducts(w http.ResponseWriter, r *http.Request) {
	page, err := a.productSvc.List(r.Context(), actorFrom(r.Context()), pageParam(r))
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}

	resp := make([]map[string]any, 0, len(page.Items))
	for _, p := range page.Items {
		resp = append(resp, mapProduct(p))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleAPIGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	p, err := a.productSvc.Get(r.Context(), actorFrom(r.Context()), id)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(p))
}

type productRequest struct {
	Name  any `json:"name"`
	Price any `json:"price"`
}

func (a *API) handleAPICreateProduct(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	if err := a.productSvc.AuthorizeManage(actor); err != nil {
		a.handleDomainError(w, r, err)
		return
	}

	var req productRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
		return
	}

	in, typeErrs := req.input()
	if len(typeErrs) > 0 {
		// Report the remaining fields too; a type error wins for its own field.
		var verr *domproduct.ValidationError
		if _, err := in.Validate(); errors.As(err, &verr) {
			for field, msg := range verr.Fields {
				if _, ok := typeErrs[field]; !ok {
					typeErrs[field] = msg
				}
			}
		}
		a.handleDomainError(w, r, &domproduct.ValidationError{Fields: typeErrs})
		return
	}

	p, err := a.productSvc.Create(r.Context(), actor, in)
	if err != nil {
		a.handleDomainError(w, r, err)
		return
	}
	a.metrics.ProductMutations.WithLabelValues("create").Inc()
	writeJSON(w, http.StatusCreated, mapProduct(p))
}

// input converts loosely typed JSON into form-style input. Numbers keep
// their literal text; a JSON value of the wrong kind is reported per field.
func (req productRequest) input() (domproduct.Input, map[string]string) {
	var in domproduct.Input
	errs := map[string]string{}

	switch v := req.Name.(type) {
	case nil:
	case string:
		in.Name = v
	default:
		errs["name"] = "The name field must be a string."
	}

	switch v := req.Price.(type) {
	case nil:
	case json.Number:
		in.Price = v.String()
	case string:
		in.Price = v
	default:
		errs["price"] = "The price field must be a number."
	}
	return in, errs
}
