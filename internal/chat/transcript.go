package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Skotchmaster/bookstore/internal/domain"
	"github.com/Skotchmaster/bookstore/internal/logging"
	"github.com/Skotchmaster/bookstore/internal/models"
)

// ErrBusy is returned while a reply is still streaming.
var ErrBusy = errors.New("chat reply in progress")

// Transcript is the ordered message list of one session. It is safe for
// concurrent use: a reply streams into it while other requests read it.
type Transcript struct {
	mu        sync.Mutex
	messages  []models.ChatMessage
	busy      bool
	completer Completer
}

func NewTranscript(c Completer) *Transcript {
	if c == nil {
		c = Unavailable()
	}
	return &Transcript{
		completer: c,
		messages: []models.ChatMessage{{
			ID:   welcomeID,
			Role: models.ChatAssistant,
			Text: WelcomeText,
		}},
	}
}

func (t *Transcript) Messages() []models.ChatMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.ChatMessage, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *Transcript) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.busy
}

// Submit appends the user message and a streaming assistant placeholder,
// then streams the reply into the placeholder. The returned channel yields
// the reply text in arrival order; on failure the last fragment is
// ApologyText. The reply keeps streaming into the transcript even if ctx is
// cancelled; only delivery on the channel stops.
func (t *Transcript) Submit(ctx context.Context, text string) (<-chan Fragment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.Invalid("text", "required")
	}

	t.mu.Lock()
	if t.busy {
		t.mu.Unlock()
		return nil, ErrBusy
	}
	t.busy = true
	t.messages = append(t.messages,
		models.ChatMessage{ID: uuid.NewString(), Role: models.ChatUser, Text: text},
		models.ChatMessage{ID: uuid.NewString(), Role: models.ChatAssistant, Streaming: true},
	)
	replyIdx := len(t.messages) - 1
	history := t.historyLocked(replyIdx)
	t.mu.Unlock()

	in := t.completer.Stream(context.WithoutCancel(ctx), history)
	out := make(chan Fragment)
	go t.pump(ctx, replyIdx, in, out)
	return out, nil
}

func (t *Transcript) pump(ctx context.Context, idx int, in <-chan Fragment, out chan<- Fragment) {
	defer close(out)
	l := logging.FromContext(ctx).With("svc", "chat.transcript")
	deliver := true

	for f := range in {
		if f.Err != nil {
			l.Warn("chat_stream_failed", "error", f.Err)
			f = Fragment{Text: ApologyText}
		}
		t.mu.Lock()
		t.messages[idx].Text += f.Text
		t.mu.Unlock()

		if deliver {
			select {
			case out <- f:
			case <-ctx.Done():
				deliver = false
			}
		}
	}

	t.mu.Lock()
	t.messages[idx].Streaming = false
	t.busy = false
	t.mu.Unlock()
}

// historyLocked is the conversation before the reply placeholder, without
// the canned welcome message.
func (t *Transcript) historyLocked(replyIdx int) []Turn {
	turns := make([]Turn, 0, replyIdx)
	for _, m := range t.messages[:replyIdx] {
		if m.ID == welcomeID {
			continue
		}
		turns = append(turns, Turn{Role: m.Role, Text: m.Text})
	}
	return turns
}
