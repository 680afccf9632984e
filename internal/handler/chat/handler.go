package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lumabay/storechat/internal/genai"
	"github.com/lumabay/storechat/internal/model/chat"
	chatservice "github.com/lumabay/storechat/internal/service/chat"
	"github.com/lumabay/storechat/internal/session"
	"github.com/lumabay/storechat/pkg/utils"
)

// Handler exposes the chat relay over HTTP.
type Handler struct {
	chatSvc *chatservice.Service
}

// New creates the chat handler.
func New(chatSvc *chatservice.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes mounts the chat endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Get("/sessions/{sessionID}/turns", h.handleTranscript)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message   string         `json:"message"`
		SessionID string         `json:"sessionId"`
		StoreMeta chat.StoreMeta `json:"storeMeta"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "message required")
		return
	}

	sessionID, reply, err := h.chatSvc.Converse(r.Context(), payload.SessionID, payload.Message, payload.StoreMeta)
	if err != nil {
		h.respondChatError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"sessionId": sessionID,
		"reply":     reply,
	})
}

// respondChatError maps the error taxonomy onto status codes: missing
// message is the caller's fault, a failed generation call is a bad gateway
// carrying the upstream body, anything else collapses to a string summary.
func (h *Handler) respondChatError(w http.ResponseWriter, err error) {
	if errors.Is(err, chatservice.ErrEmptyMessage) {
		utils.RespondError(w, http.StatusBadRequest, "message required")
		return
	}

	var upstream *genai.UpstreamError
	if errors.As(err, &upstream) {
		utils.RespondErrorDetail(w, http.StatusBadGateway, "genai_error", upstream.Body)
		return
	}

	utils.RespondErrorDetail(w, http.StatusInternalServerError, "server_error", err.Error())
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	turns, err := h.chatSvc.Transcript(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, "session not found")
			return
		}
		utils.RespondErrorDetail(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"sessionId": sessionID,
		"turns":     turns,
	})
}
