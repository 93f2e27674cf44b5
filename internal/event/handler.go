package event

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andydlo/neighborhood-connect/pkg/middleware"
	"github.com/andydlo/neighborhood-connect/pkg/response"
	"github.com/andydlo/neighborhood-connect/pkg/validate"
)

// Handler handles HTTP requests for event operations
type Handler struct {
	service *Service
}

// NewHandler creates a new event handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for event endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/mine", h.Mine)
	r.Get("/types", h.Types)

	// Attendance
	r.Post("/{id}/signup", h.SignUp)
	r.Post("/{id}/unsubscribe", h.Unsubscribe)

	return r
}

// Create handles POST /events
// @Summary      Create an event
// @Description  Create an event; the creator becomes its first attendee
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request body CreateEventRequest true "Event creation request"
// @Success      201 {object} response.APIResponse{data=EventResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /events [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmail(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	event, err := h.service.Create(r.Context(), email, &req)
	if err != nil {
		response.InternalError(w, "Failed to create event")
		return
	}

	response.JSON(w, http.StatusCreated, event.ToResponse(email))
}

// List handles GET /events
// @Summary      List events
// @Description  List all events with the current user's sign-up status
// @Tags         events
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]EventResponse}
// @Router       /events [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmail(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	events, err := h.service.List(r.Context())
	if err != nil {
		response.InternalError(w, "Failed to list events")
		return
	}

	response.JSON(w, http.StatusOK, ToResponses(events, email))
}

// Mine handles GET /events/mine
// @Summary      My events
// @Description  List the events the current user is signed up for, soonest first
// @Tags         events
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]EventResponse}
// @Router       /events/mine [get]
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmail(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	events, err := h.service.Mine(r.Context(), email)
	if err != nil {
		response.InternalError(w, "Failed to list events")
		return
	}

	response.JSON(w, http.StatusOK, ToResponses(events, email))
}

// Types handles GET /events/types
func (h *Handler) Types(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, DefaultTypes)
}

// SignUp handles POST /events/{id}/signup
// @Summary      Sign up for an event
// @Description  Append the current user to the event's attendee list
// @Tags         events
// @Produce      json
// @Param        id path string true "Event ID"
// @Success      200 {object} response.APIResponse{data=EventResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /events/{id}/signup [post]
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmail(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	event, err := h.service.SignUp(r.Context(), chi.URLParam(r, "id"), email)
	if err != nil {
		switch {
		case errors.Is(err, ErrEventNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrAlreadySignedUp):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to sign up for event")
		}
		return
	}

	response.JSON(w, http.StatusOK, event.ToResponse(email))
}

// Unsubscribe handles POST /events/{id}/unsubscribe
// @Summary      Unsubscribe from an event
// @Description  Remove the current user from the event's attendee list
// @Tags         events
// @Produce      json
// @Param        id path string true "Event ID"
// @Success      200 {object} response.APIResponse{data=EventResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /events/{id}/unsubscribe [post]
func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmail(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	event, err := h.service.Unsubscribe(r.Context(), chi.URLParam(r, "id"), email)
	if err != nil {
		switch {
		case errors.Is(err, ErrEventNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrNotSignedUp):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to unsubscribe from event")
		}
		return
	}

	response.JSON(w, http.StatusOK, event.ToResponse(email))
}
