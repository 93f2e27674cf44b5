package directory

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/andydlo/neighborhood-connect/pkg/middleware"
	"github.com/andydlo/neighborhood-connect/pkg/response"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler handles HTTP requests for the home view
type Handler struct {
	projector *Projector
}

// NewHandler creates a new directory handler
func NewHandler(projector *Projector) *Handler {
	return &Handler{projector: projector}
}

// Routes returns the home view router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Home)
	r.Get("/stream", h.Stream)

	return r
}

// Home handles GET /home
// @Summary      Home view
// @Description  Get the current user's groups and events, partitioned
// @Tags         home
// @Produce      json
// @Success      200 {object} response.APIResponse{data=HomeViewResponse}
// @Failure      401 {object} response.APIResponse
// @Router       /home [get]
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmail(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	view := h.projector.View(email)
	response.JSON(w, http.StatusOK, view.ToResponse(email))
}

// Stream handles GET /home/stream
// @Summary      Home view stream
// @Description  Stream the current user's home view over a websocket; a full view is pushed on every directory change
// @Tags         home
// @Success      101 {string} string "Switching Protocols"
// @Failure      401 {object} response.APIResponse
// @Router       /home/stream [get]
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmail(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sub := h.projector.Subscribe(email)
	defer sub.Close()

	// Read pump. The client sends nothing meaningful; reading is how we
	// notice pongs and closes.
	readErr := make(chan struct{})
	go func() {
		defer close(readErr)
		conn.SetReadLimit(512)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case view, ok := <-sub.Views():
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(view.ToResponse(email)); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-readErr:
			return
		}
	}
}
