package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"

	"employercheck/internal/eligibility"
	"employercheck/internal/logging"
	"employercheck/internal/model"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Interviews serves hints and keeps drafts for live interviews
type Interviews interface {
	Definition(ctx context.Context, code string) (*model.InterviewDefinition, error)
	SaveDraft(ctx context.Context, sessionID string, iv *eligibility.Interview) error
	Resume(ctx context.Context, sessionID string) (*eligibility.Interview, *eligibility.HintsRequest, error)
	DiscardDraft(ctx context.Context, sessionID string)
}

// Evaluations records submissions for an open session
type Evaluations interface {
	SubmitForSession(ctx context.Context, sessionID string, answers model.AnswerSet) (*model.Assessment, error)
}

// TokenValidator checks respondent session tokens
type TokenValidator interface {
	ValidateSessionToken(token string) (*model.RespondentClaims, error)
}

// Handler handles WebSocket connections
type Handler struct {
	hub         *Hub
	auth        TokenValidator
	interviews  Interviews
	evaluations Evaluations
	upgrader    websocket.Upgrader
	log         *slog.Logger
}

// NewHandler creates a new WebSocket handler. allowedOrigins follows the
// CORS setting; "*" accepts any origin.
func NewHandler(hub *Hub, auth TokenValidator, interviews Interviews, evaluations Evaluations, allowedOrigins []string) *Handler {
	wildcard := len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*")
	return &Handler{
		hub:         hub,
		auth:        auth,
		interviews:  interviews,
		evaluations: evaluations,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return wildcard || origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
		log: logging.New("ws"),
	}
}

// InterviewWS handles GET /v1/ws/interview
func (h *Handler) InterviewWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.auth.ValidateSessionToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	iv, pending, err := h.interviews.Resume(r.Context(), claims.SessionID)
	if err != nil {
		h.log.Warn("draft unavailable, starting fresh", "session_id", claims.SessionID, "error", err)
		iv, pending = eligibility.NewInterview(), nil
	}

	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	conn := newConnection(claims.SessionID)
	h.hub.Register(conn)

	s := &session{
		h:     h,
		conn:  conn,
		inbox: make(chan Message, 16),
		hints: make(chan hintsResult, 4),
		log:   h.log.With("session_id", claims.SessionID),
	}

	go h.writePump(wsConn, conn)
	go s.run(iv, pending)
	go h.readPump(wsConn, conn, s.inbox)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection, inbox chan<- Message) {
	defer func() {
		close(inbox)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				h.log.Warn("websocket read failed", "session_id", conn.SessionID, "error", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			msg = Message{}
		}
		select {
		case inbox <- msg:
		case <-conn.Done():
			return
		}
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-conn.Done():
			// flush what the session queued before it ended
			for {
				select {
				case message := <-conn.Send:
					wsConn.SetWriteDeadline(time.Now().Add(writeWait))
					if err := wsConn.WriteMessage(websocket.TextMessage, message); err != nil {
						return
					}
				default:
					wsConn.SetWriteDeadline(time.Now().Add(writeWait))
					wsConn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
					return
				}
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
