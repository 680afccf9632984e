package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	chatHandler "github.com/lumabay/storechat/internal/handler/chat"
	middlewarePkg "github.com/lumabay/storechat/internal/middleware"
	chatService "github.com/lumabay/storechat/internal/service/chat"
	"github.com/lumabay/storechat/pkg/utils"
)

// NewRouter wires HTTP routes to the chat service.
func NewRouter(chatSvc *chatService.Service) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	h := chatHandler.New(chatSvc)

	r.Route("/api", func(api chi.Router) {
		api.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		h.RegisterRoutes(api)
	})

	return r
}
