package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/bookstore/internal/chat"
	"github.com/Skotchmaster/bookstore/internal/logging"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the reading assistant from the terminal",
	Long: `chat reads one message per line from stdin and streams the
assistant's reply to stdout. It needs GEMINI_API_KEY; without it every
reply is the connection apology.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName, "mode", "chat")

		completer := chat.Unavailable()
		if cfg.GeminiAPIKey != "" {
			gc, err := chat.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
			if err != nil {
				return err
			}
			completer = gc
		}
		ctx := logging.IntoContext(context.Background(), logger)
		return runChat(ctx, chat.NewTranscript(completer), cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(ctx context.Context, tr *chat.Transcript, in io.Reader, out io.Writer) error {
	msgs := tr.Messages()
	fmt.Fprintf(out, "%s\n> ", msgs[0].Text)

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			fmt.Fprint(out, "> ")
			continue
		}
		frags, err := tr.Submit(ctx, line)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n> ", err)
			continue
		}
		for f := range frags {
			fmt.Fprint(out, f.Text)
		}
		fmt.Fprint(out, "\n> ")
	}
	return sc.Err()
}
