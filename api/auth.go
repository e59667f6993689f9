package api

import (
	"net/http"

	"github.com/garnizeh/techstaff/internal/marketplace"
	"github.com/garnizeh/techstaff/internal/security"
	"github.com/garnizeh/techstaff/pkg/models"
)

type AuthHandler struct {
	accounts *marketplace.AccountService
	issuer   *security.TokenIssuer
	decoder  *requestDecoder
}

func NewAuthHandler(accounts *marketplace.AccountService, issuer *security.TokenIssuer, decoder *requestDecoder) *AuthHandler {
	return &AuthHandler{accounts: accounts, issuer: issuer, decoder: decoder}
}

type signupRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := h.decoder.decode(r, schemaSignup, &req); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := h.accounts.SignUp(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.respondWithToken(w, r, u, http.StatusCreated)
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := h.decoder.decode(r, schemaSignin, &req); err != nil {
		writeError(w, r, err)
		return
	}

	u, err := h.accounts.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.respondWithToken(w, r, u, http.StatusOK)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, r *http.Request, u *models.User, status int) {
	token, err := h.issuer.Issue(u)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, authResponse{Token: token, User: u}, status)
}

// Me returns the caller as seen by the token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, _ := CurrentUser(r.Context())
	writeJSON(w, map[string]string{"userId": p.UserID, "email": p.Email, "role": string(p.Role)}, http.StatusOK)
}

// Signout is client side for stateless tokens.
func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"message": "signed out"}, http.StatusOK)
}
