package http

import (
	"errors"
	"net/http"

	domuser "example.com/catalog-admin/internal/domain/user"
	authuc "example.com/catalog-admin/internal/usecase/auth"
)

func (a *API) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	actor := actorFrom(r.Context())
	if actor.IsAuthenticated() {
		http.Redirect(w, r, "/products/all", http.StatusFound)
		return
	}
	a.render(w, r, http.StatusOK, "login.html", loginView{Actor: actor})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	result, err := a.authSvc.Login(r.Context(), authuc.LoginInput{
		Email:    email,
		Password: r.PostFormValue("password"),
	})
	if errors.Is(err, domuser.ErrInvalidCredential) {
		a.render(w, r, http.StatusUnprocessableEntity, "login.html", loginView{
			Actor: domuser.Anonymous,
			Email: email,
			Error: "These credentials do not match our records.",
		})
		return
	}
	if err != nil {
		a.handleWebError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    result.Token,
		Path:     "/",
		MaxAge:   int(a.tokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   a.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/products/all", http.StatusFound)
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(a.cookieName); err == nil {
		if err := a.authSvc.Logout(r.Context(), c.Value); err != nil {
			a.handleWebError(w, r, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/login", http.StatusFound)
}
