package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/andydlo/neighborhood-connect/pkg/middleware"
	"github.com/andydlo/neighborhood-connect/pkg/response"
	"github.com/andydlo/neighborhood-connect/pkg/validate"
)

// Handler handles HTTP requests for group chat messages. Its routes are
// mounted below a neighborhood, so the owning group ID comes from the
// parent route pattern.
type Handler struct {
	service *Service
}

// NewHandler creates a new chat handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for message endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Post)

	return r
}

// List handles GET /neighborhoods/{id}/messages
// @Summary      List group messages
// @Description  Get a group's chat messages in posting order
// @Tags         messages
// @Produce      json
// @Param        id path string true "Neighborhood ID"
// @Success      200 {object} response.APIResponse{data=[]MessageResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /neighborhoods/{id}/messages [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	neighborhoodID := chi.URLParam(r, "id")

	messages, err := h.service.List(r.Context(), neighborhoodID)
	if err != nil {
		if errors.Is(err, ErrNeighborhoodNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to list messages")
		return
	}

	messageResponses := make([]*MessageResponse, len(messages))
	for i := range messages {
		messageResponses[i] = messages[i].ToResponse()
	}

	response.JSON(w, http.StatusOK, messageResponses)
}

// Post handles POST /neighborhoods/{id}/messages
// @Summary      Post a message
// @Description  Append a chat message to the group's stream
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        id path string true "Neighborhood ID"
// @Param        request body PostMessageRequest true "Message to post"
// @Success      201 {object} response.APIResponse{data=MessageResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /neighborhoods/{id}/messages [post]
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmail(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	neighborhoodID := chi.URLParam(r, "id")

	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	message, err := h.service.Post(r.Context(), neighborhoodID, email, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, ErrNeighborhoodNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrEmptyMessage):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to post message")
		}
		return
	}

	response.JSON(w, http.StatusCreated, message.ToResponse())
}
