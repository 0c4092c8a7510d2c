// Package chat holds the assistant transcript and the completion backends
// that stream replies into it.
package chat

import (
	"context"
	"errors"

	"github.com/Skotchmaster/bookstore/internal/models"
)

var ErrUnavailable = errors.New("chat completion unavailable")

type Turn struct {
	Role models.ChatRole
	Text string
}

// Fragment is one piece of a streamed reply. A fragment with Err set is
// terminal; the stream closes after it.
type Fragment struct {
	Text string
	Err  error
}

// Completer streams a reply to the conversation so far. The returned channel
// is closed when the reply is complete or has failed.
type Completer interface {
	Stream(ctx context.Context, history []Turn) <-chan Fragment
}

type unavailable struct{}

// Unavailable is used when no completion backend is configured; every
// stream fails immediately.
func Unavailable() Completer { return unavailable{} }

func (unavailable) Stream(context.Context, []Turn) <-chan Fragment {
	ch := make(chan Fragment, 1)
	ch <- Fragment{Err: ErrUnavailable}
	close(ch)
	return ch
}
