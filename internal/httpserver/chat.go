package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookstore/internal/logging"
	sessionmw "github.com/Skotchmaster/bookstore/internal/middleware/session"
	"github.com/Skotchmaster/bookstore/internal/transport"
)

type ChatHTTP struct{}

func (h *ChatHTTP) GetTranscript(c echo.Context) error {
	return c.JSON(http.StatusOK, sessionmw.FromContext(c).Chat().Messages())
}

// PostMessage streams the reply as server-sent events: one "fragment" event
// per piece of text, then a "done" event carrying the finished message.
func (h *ChatHTTP) PostMessage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "chat.post_message")

	var req transport.ChatRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "chat_message", "invalid body", err)
	}

	tr := sessionmw.FromContext(c).Chat()
	frags, err := tr.Submit(ctx, req.Text)
	if err != nil {
		return fail(l, "chat_message", err, "cannot send message")
	}

	// Replies outlive the server's default write timeout.
	_ = http.NewResponseController(c.Response().Writer).SetWriteDeadline(time.Time{})

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	n := 0
	for f := range frags {
		if err := writeEvent(w, "fragment", map[string]string{"text": f.Text}); err != nil {
			l.Warn("chat_stream_write_failed", "error", err)
			continue
		}
		n++
	}

	msgs := tr.Messages()
	if err := writeEvent(w, "done", msgs[len(msgs)-1]); err != nil {
		l.Warn("chat_stream_write_failed", "error", err)
	}
	l.Info("chat_message_success", "fragments", n)
	return nil
}

func writeEvent(w *echo.Response, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	w.Flush()
	return nil
}
