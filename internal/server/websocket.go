package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ashita-ai/studio/internal/chat"
	"github.com/ashita-ai/studio/internal/model"
)

const (
	chatWSWriteWait = 10 * time.Second
	chatWSPongWait  = 60 * time.Second
	chatWSPingEvery = (chatWSPongWait * 9) / 10
)

var chatWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// chatWSInbound is a client frame: {"type":"message","message":"..."} or
// {"type":"ping"}.
type chatWSInbound struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

// chatWSOutbound is a server frame. Types are pong, thinking,
// assistant_message and error.
type chatWSOutbound struct {
	Type      string           `json:"type"`
	Reply     string           `json:"reply,omitempty"`
	ToolCalls []model.ToolCall `json:"tool_calls,omitempty"`
	Code      string           `json:"code,omitempty"`
	Message   string           `json:"message,omitempty"`
}

// HandleChatSocket handles GET /v1/apps/{id}/chat/ws. The app is resolved
// before the upgrade so an unknown id gets a normal 404.
func (h *Handlers) HandleChatSocket(w http.ResponseWriter, r *http.Request) {
	app, set, ok := h.appTools(w, r)
	if !ok {
		return
	}

	conn, err := chatWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.logger.Debug("chat ws: upgrade failed", "error", err, "app_id", app.ID)
		return
	}
	defer func() { _ = conn.Close() }()

	// The request context is not tied to a hijacked connection; the read
	// loop ending is what cancels this one.
	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()

	if h.maxRequestBodyBytes > 0 {
		conn.SetReadLimit(h.maxRequestBodyBytes)
	}
	if err := conn.SetReadDeadline(time.Now().Add(chatWSPongWait)); err != nil {
		h.logger.Warn("chat ws: set read deadline failed", "error", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(chatWSPongWait))
	})

	writeCh := make(chan chatWSOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(chatWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(chatWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(chatWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	h.logger.Info("chat ws: connected", "app_id", app.ID)
	defer h.logger.Info("chat ws: disconnected", "app_id", app.ID)

	for {
		var in chatWSInbound
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			return
		}

		switch strings.ToLower(strings.TrimSpace(in.Type)) {
		case "ping":
			pushChatWS(writeCh, chatWSOutbound{Type: "pong"})
		case "message":
			msg := strings.TrimSpace(in.Message)
			if msg == "" || len(msg) > model.MaxPromptLen {
				pushChatWS(writeCh, chatWSOutbound{
					Type:    "error",
					Code:    model.ErrCodeInvalidInput,
					Message: "message is required and must be at most 4096 bytes",
				})
				continue
			}
			pushChatWS(writeCh, chatWSOutbound{Type: "thinking"})
			resp, err := chat.Reply(ctx, app, set, msg)
			if err != nil {
				h.logger.Warn("chat ws: reply failed", "error", err, "app_id", app.ID)
				pushChatWS(writeCh, chatWSOutbound{
					Type:    "error",
					Code:    model.ErrCodeInternalError,
					Message: "failed to generate a reply",
				})
				continue
			}
			pushChatWS(writeCh, chatWSOutbound{
				Type:      "assistant_message",
				Reply:     resp.Reply,
				ToolCalls: resp.ToolCalls,
			})
		default:
			pushChatWS(writeCh, chatWSOutbound{
				Type:    "error",
				Code:    model.ErrCodeInvalidInput,
				Message: "unsupported type: " + in.Type,
			})
		}
	}
}

// pushChatWS queues out for the writer. When the queue is full the oldest
// frame is dropped.
func pushChatWS(writeCh chan chatWSOutbound, out chatWSOutbound) {
	select {
	case writeCh <- out:
		return
	default:
	}
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}
