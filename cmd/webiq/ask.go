package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"webiq/internal/chat"
	"webiq/internal/session"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newAskCmd(f *flags) *cobra.Command {
	var (
		urls    []string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask one question without the TUI",
		Long: `Ask scrapes --url pages into the cached session (creating one if needed),
or reuses the cached session when no --url is given, then prints the first answer.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd.Context(), *f)
			if err != nil {
				return err
			}
			defer rt.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			question := strings.Join(args, " ")
			answer, err := rt.ask(ctx, urls, question, timeout, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&urls, "url", "u", nil, "page to scrape (repeatable or comma-separated)")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "how long to wait for the answer")
	return cmd
}

// ask prepares the session, sends one question and returns the first reply.
func (rt *runtime) ask(ctx context.Context, urls []string, question string, timeout time.Duration, progress io.Writer) (string, error) {
	report := func(ev session.Event) {
		switch ev.Stage {
		case session.StageCreating:
			fmt.Fprintln(progress, "creating session...")
		case session.StageScraping:
			fmt.Fprintf(progress, "scraping into session %s...\n", ev.SessionID)
		case session.StageWaiting:
			fmt.Fprintln(progress, "waiting for chatbot to finish initialization...")
		case session.StageReady:
			fmt.Fprintln(progress, "chatbot is ready")
		}
	}

	var (
		id  string
		err error
	)
	if parsed := session.ParseURLs(strings.Join(urls, ",")); len(parsed) > 0 {
		id, err = rt.manager.Start(ctx, parsed, report)
	} else {
		id, err = rt.manager.Restore(ctx, report)
	}
	if errors.Is(err, session.ErrNoSession) {
		return "", errors.New("no cached session; pass --url to scrape pages first")
	}
	if err != nil {
		return "", errors.Wrap(err, "failed to initialize chatbot")
	}

	conn, err := rt.dial(ctx, id)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	if err := conn.Send(question); err != nil {
		return "", err
	}
	return awaitAnswer(ctx, conn.Events(), timeout)
}

// awaitAnswer returns the first text reply, or an error for an error frame,
// a closed socket or a timeout.
func awaitAnswer(ctx context.Context, events <-chan chat.Event, timeout time.Duration) (string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return "", errors.New("websocket disconnected")
			}
			switch ev.Kind {
			case chat.EventText:
				return ev.Text, nil
			case chat.EventError:
				return "", errors.Errorf("server error: %s", ev.Text)
			case chat.EventClosed:
				if ev.Err != nil {
					return "", errors.Wrap(ev.Err, "websocket disconnected")
				}
				return "", errors.New("websocket disconnected")
			}
		case <-timer.C:
			return "", errors.Errorf("no answer after %s", timeout)
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}
