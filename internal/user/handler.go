package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/andydlo/neighborhood-connect/pkg/middleware"
	"github.com/andydlo/neighborhood-connect/pkg/response"
	"github.com/andydlo/neighborhood-connect/pkg/validate"
)

// Handler handles HTTP requests for accounts and profiles
type Handler struct {
	service   *Service
	jwtSecret string
	tokenTTL  time.Duration
}

// NewHandler creates a new user handler
func NewHandler(service *Service, jwtSecret string, tokenTTL time.Duration) *Handler {
	return &Handler{service: service, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// AuthRoutes returns the unauthenticated signup/login router
func (h *Handler) AuthRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/signup", h.SignUp)
	r.Post("/login", h.Login)

	return r
}

// ProfileRoutes returns the authenticated profile router
func (h *Handler) ProfileRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Profile)

	return r
}

// SignUp handles POST /auth/signup
// @Summary      Register an account
// @Description  Create an account and profile; returns a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body SignupRequest true "Signup request"
// @Success      201 {object} response.APIResponse{data=AuthResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /auth/signup [post]
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	profile, err := h.service.SignUp(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyInUse) {
			response.Conflict(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to sign up")
		return
	}

	h.respondWithToken(w, http.StatusCreated, profile)
}

// Login handles POST /auth/login
// @Summary      Authenticate
// @Description  Verify credentials; returns a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login request"
// @Success      200 {object} response.APIResponse{data=AuthResponse}
// @Failure      401 {object} response.APIResponse
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	profile, err := h.service.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Unauthorized(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to log in")
		return
	}

	h.respondWithToken(w, http.StatusOK, profile)
}

// Profile handles GET /profile
// @Summary      Current profile
// @Description  Get the authenticated user's profile
// @Tags         auth
// @Produce      json
// @Success      200 {object} response.APIResponse{data=ProfileResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /profile [get]
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserUID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	profile, err := h.service.Profile(r.Context(), uid)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to load profile")
		return
	}

	response.JSON(w, http.StatusOK, profile.ToResponse())
}

func (h *Handler) respondWithToken(w http.ResponseWriter, status int, profile *Profile) {
	token, err := middleware.SignToken(h.jwtSecret, profile.Email, profile.UID, h.tokenTTL)
	if err != nil {
		response.InternalError(w, "Failed to issue token")
		return
	}

	response.JSON(w, status, &AuthResponse{
		Token:   token,
		Profile: profile.ToResponse(),
	})
}
