package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bookstore/internal/chat"
)

type upperCompleter struct{}

func (upperCompleter) Stream(_ context.Context, history []chat.Turn) <-chan chat.Fragment {
	ch := make(chan chat.Fragment, 1)
	ch <- chat.Fragment{Text: strings.ToUpper(history[len(history)-1].Text)}
	close(ch)
	return ch
}

func TestRunChat(t *testing.T) {
	tr := chat.NewTranscript(upperCompleter{})
	var out bytes.Buffer

	err := runChat(context.Background(), tr, strings.NewReader("hello\n\nsuggest a novel\n"), &out)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out.String(), chat.WelcomeText))
	assert.Contains(t, out.String(), "HELLO\n> ")
	assert.Contains(t, out.String(), "SUGGEST A NOVEL\n> ")
	assert.Len(t, tr.Messages(), 5)
}

func TestRunChat_Unavailable(t *testing.T) {
	tr := chat.NewTranscript(nil)
	var out bytes.Buffer

	require.NoError(t, runChat(context.Background(), tr, strings.NewReader("anyone there?\n"), &out))
	assert.Contains(t, out.String(), strings.TrimSpace(chat.ApologyText))
}
