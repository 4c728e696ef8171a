package http

import (
	"errors"
	"fmt"
	"net/http"

	domproduct "example.com/catalog-admin/internal/domain/product"
	domuser "example.com/catalog-admin/internal/domain/user"
)

func (a *API) handleProductIndex(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	page, err := a.productSvc.List(r.Context(), actor, pageParam(r))
	if err != nil {
		a.handleWebError(w, r, err)
		return
	}
	a.render(w, r, http.StatusOK, "products_index.html", productIndexView{Actor: actor, Page: page})
}

func (a *API) handleProductCreateForm(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	if err := a.productSvc.AuthorizeManage(actor); err != nil {
		a.handleWebError(w, r, err)
		return
	}
	a.render(w, r, http.StatusOK, "product_form.html", productFormView{
		Actor:  actor,
		Title:  "Create product",
		Action: "/products/store",
	})
}

func (a *API) handleProductStore(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	in := formInput(r)

	_, err := a.productSvc.Create(r.Context(), actor, in)
	var verr *domproduct.ValidationError
	if errors.As(err, &verr) {
		a.render(w, r, http.StatusUnprocessableEntity, "product_form.html", productFormView{
			Actor:  actor,
			Title:  "Create product",
			Action: "/products/store",
			Name:   in.Name,
			Price:  in.Price,
			Errors: verr.Fields,
		})
		return
	}
	if err != nil {
		a.handleWebError(w, r, err)
		return
	}
	a.metrics.ProductMutations.WithLabelValues("create").Inc()
	http.Redirect(w, r, "/products/all", http.StatusFound)
}

func (a *API) handleProductEditForm(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	id, err := a.manageIDParam(r, actor)
	if err != nil {
		a.handleWebError(w, r, err)
		return
	}

	p, err := a.productSvc.GetForEdit(r.Context(), actor, id)
	if err != nil {
		a.handleWebError(w, r, err)
		return
	}
	a.render(w, r, http.StatusOK, "product_form.html", productFormView{
		Actor:  actor,
		Title:  "Edit product",
		Action: fmt.Sprintf("/products/%d", p.ID),
		Name:   p.Name,
		Price:  domproduct.FormatPrice(p.Price),
	})
}

func (a *API) handleProductUpdate(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	id, err := a.manageIDParam(r, actor)
	if err != nil {
		a.handleWebError(w, r, err)
		return
	}
	in := formInput(r)

	_, err = a.productSvc.Update(r.Context(), actor, id, in)
	var verr *domproduct.ValidationError
	if errors.As(err, &verr) {
		a.render(w, r, http.StatusUnprocessableEntity, "product_form.html", productFormView{
			Actor:  actor,
			Title:  "Edit product",
			Action: fmt.Sprintf("/products/%d", id),
			Name:   in.Name,
			Price:  in.Price,
			Errors: verr.Fields,
		})
		return
	}
	if err != nil {
		a.handleWebError(w, r, err)
		return
	}
	a.metrics.ProductMutations.WithLabelValues("update").Inc()
	http.Redirect(w, r, "/products/all", http.StatusFound)
}

func (a *API) handleProductDelete(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	id, err := a.manageIDParam(r, actor)
	if err != nil {
		a.handleWebError(w, r, err)
		return
	}

	if err := a.productSvc.Delete(r.Context(), actor, id); err != nil {
		a.handleWebError(w, r, err)
		return
	}
	a.metrics.ProductMutations.WithLabelValues("delete").Inc()
	http.Redirect(w, r, "/products/all", http.StatusFound)
}

// manageIDParam authorizes a product mutation before looking at the id, so
// callers without the admin tier never learn whether an id is well formed.
func (a *API) manageIDParam(r *http.Request, actor domuser.Actor) (int64, error) {
	if err := a.productSvc.AuthorizeManage(actor); err != nil {
		return 0, err
	}
	id, err := parseIDParam(r, "id")
	if err != nil {
		return 0, domproduct.ErrProductNotFound
	}
	return id, nil
}

func formInput(r *http.Request) domproduct.Input {
	return domproduct.Input{
		Name:  r.PostFormValue("name"),
		Price: r.PostFormValue("price"),
	}
}
