package neighborhood

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/andydlo/neighborhood-connect/internal/chat"
	"github.com/andydlo/neighborhood-connect/pkg/middleware"
	"github.com/andydlo/neighborhood-connect/pkg/response"
	"github.com/andydlo/neighborhood-connect/pkg/validate"
)

// Handler handles HTTP requests for neighborhood operations
type Handler struct {
	service *Service
	chat    *chat.Handler
}

// NewHandler creates a new neighborhood handler. The chat handler is
// mounted below each group for its message stream.
func NewHandler(service *Service, chatHandler *chat.Handler) *Handler {
	return &Handler{service: service, chat: chatHandler}
}

// Routes returns the router for neighborhood endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.Search)
	r.Get("/mine", h.Mine)

	// Membership and messages
	r.Post("/{id}/join", h.Join)
	r.Mount("/{id}/messages", h.chat.Routes())

	return r
}

// Create handles POST /neighborhoods
// @Summary      Create a neighborhood group
// @Description  Create a group; the creator becomes its sole member
// @Tags         neighborhoods
// @Accept       json
// @Produce      json
// @Param        request body CreateNeighborhoodRequest true "Group creation request"
// @Success      201 {object} response.APIResponse{data=NeighborhoodResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /neighborhoods [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmail(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateNeighborhoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	group, err := h.service.Create(r.Context(), email, &req)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	response.JSON(w, http.StatusCreated, group.ToResponse())
}

// Search handles GET /neighborhoods?zip=&age=
// @Summary      Find neighborhood groups
// @Description  List groups serving the given ZIP code and age; empty result is not an error
// @Tags         neighborhoods
// @Produce      json
// @Param        zip query string true "ZIP code (exact match)"
// @Param        age query int true "Age to match against each group's age range"
// @Success      200 {object} response.APIResponse{data=[]NeighborhoodResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /neighborhoods [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	zip := r.URL.Query().Get("zip")
	if zip == "" {
		response.BadRequest(w, "zip query parameter required")
		return
	}
	age, err := strconv.Atoi(r.URL.Query().Get("age"))
	if err != nil {
		response.BadRequest(w, "age query parameter must be a number")
		return
	}

	groups, err := h.service.Search(r.Context(), zip, age)
	if err != nil {
		response.InternalError(w, "Failed to search neighborhoods")
		return
	}

	response.JSON(w, http.StatusOK, ToResponses(groups))
}

// Mine handles GET /neighborhoods/mine
// @Summary      My neighborhoods
// @Description  Partition the current user's groups into created and joined
// @Tags         neighborhoods
// @Produce      json
// @Success      200 {object} response.APIResponse{data=MineResponse}
// @Router       /neighborhoods/mine [get]
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmail(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	created, joined, err := h.service.Mine(r.Context(), email)
	if err != nil {
		response.InternalError(w, "Failed to list neighborhoods")
		return
	}

	response.JSON(w, http.StatusOK, &MineResponse{
		Created: ToResponses(created),
		Joined:  ToResponses(joined),
	})
}

// Join handles POST /neighborhoods/{id}/join
// @Summary      Join a neighborhood group
// @Description  Append the current user to the group's membership list
// @Tags         neighborhoods
// @Produce      json
// @Param        id path string true "Neighborhood ID"
// @Success      200 {object} response.APIResponse{data=NeighborhoodResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /neighborhoods/{id}/join [post]
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmail(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id := chi.URLParam(r, "id")

	group, err := h.service.Join(r.Context(), id, email)
	if err != nil {
		switch {
		case errors.Is(err, ErrNeighborhoodNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrAlreadyMember):
			response.Conflict(w, err.Error())
		default:
			response.InternalError(w, "Failed to join neighborhood")
		}
		return
	}

	response.JSON(w, http.StatusOK, group.ToResponse())
}
