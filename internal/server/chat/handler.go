package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/fashionguide/chat-backend/internal/logging"
	"github.com/fashionguide/chat-backend/internal/server/models"
	"github.com/fashionguide/chat-backend/internal/server/repositories/messages"
	"golang.org/x/net/websocket"
)

type identityContextKey struct{}

// Handler owns the realtime endpoint. The identity is resolved once, before
// the websocket upgrade, and is immutable for the connection's lifetime;
// there is no mid-connection re-authentication.
type Handler struct {
	binder    *Binder
	hub       *hub
	history   messages.Repository
	responder Responder
	logger    logging.Logger
}

func NewHandler(binder *Binder, history messages.Repository, responder Responder, l logging.Logger) *Handler {
	if responder == nil {
		responder = StaticResponder{}
	}
	return &Handler{
		binder:    binder,
		hub:       newHub(),
		history:   history,
		responder: responder,
		logger:    l.With("module", "chat"),
	}
}

// ServeHTTP binds the identity and upgrades. A present but invalid token is
// rejected with 401 before the upgrade; only an absent token proceeds
// anonymously.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ident, err := h.binder.Bind(tokenFromRequest(r))
	if err != nil {
		h.logger.Warn(r.Context(), "websocket rejected: bad token", "remote", r.RemoteAddr)
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	ctx := context.WithValue(r.Context(), identityContextKey{}, ident)
	websocket.Handler(h.handleConn).ServeHTTP(w, r.WithContext(ctx))
}

// tokenFromRequest pulls the optional bearer token from the places a browser
// client can put it at connection establishment.
func tokenFromRequest(r *http.Request) string {
	if token := strings.TrimSpace(r.URL.Query().Get("token")); token != "" {
		return token
	}
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := r.Cookie("access_token"); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}

func (h *Handler) handleConn(conn *websocket.Conn) {
	defer func() { _ = conn.Close() }()

	var ident Identity
	if req := conn.Request(); req != nil {
		if resolved, ok := req.Context().Value(identityContextKey{}).(Identity); ok {
			ident = resolved
		}
	}

	ctx := context.Background()
	p := newPeer(json.NewEncoder(conn))
	h.hub.add(p)
	defer h.hub.remove(p)

	h.replayHistory(ctx, ident, p)

	if err := p.write(frame{Type: models.MessageTypeBot, Content: h.responder.Greeting()}); err != nil {
		return
	}

	decoder := json.NewDecoder(conn)
	for {
		var in frame
		if err := decoder.Decode(&in); err != nil {
			if !errors.Is(err, io.EOF) {
				h.logger.Debug(ctx, "websocket read ended", "error", err.Error())
			}
			return
		}
		if in.Content == "" {
			continue
		}

		h.save(ctx, ident, models.MessageTypeUser, in.Content)

		reply, err := h.responder.Reply(ctx, in.Content)
		if err != nil {
			h.logger.Error(ctx, "responder failed", "error", err.Error())
			reply = "Sorry, something went wrong on my end. Could you try again?"
		}

		h.save(ctx, ident, models.MessageTypeBot, reply)

		if err := p.write(frame{Type: models.MessageTypeBot, Content: reply}); err != nil {
			return
		}
	}
}

const historyReplayLimit = 20

// replayHistory sends the recent conversation to a freshly connected
// authenticated peer, oldest message first. Anonymous connections start
// from a blank slate.
func (h *Handler) replayHistory(ctx context.Context, ident Identity, p *peer) {
	if h.history == nil || ident.Anonymous() {
		return
	}
	recent, err := h.history.ListRecent(ctx, historyReplayLimit)
	if err != nil {
		h.logger.Error(ctx, "loading chat history failed", "error", err.Error())
		return
	}
	for i := len(recent) - 1; i >= 0; i-- {
		if err := p.write(frame{Type: recent[i].MessageType, Content: recent[i].Content}); err != nil {
			return
		}
	}
}

// save persists history only for authenticated connections; anonymous
// traffic leaves no user-attributed trail.
func (h *Handler) save(ctx context.Context, ident Identity, messageType, content string) {
	if h.history == nil || ident.Anonymous() {
		return
	}
	m := &models.Message{MessageType: messageType, Content: content}
	if messageType == models.MessageTypeUser {
		m.UserID = &ident.UserID
	}
	if err := h.history.Save(ctx, m); err != nil {
		h.logger.Error(ctx, "saving chat history failed", "error", err.Error())
	}
}

// Connections reports the number of live websocket peers.
func (h *Handler) Connections() int {
	return h.hub.count()
}
