package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bcfl/predict/internal/journal"
	"github.com/bcfl/predict/internal/logger"
	"github.com/bcfl/predict/internal/roster"
	"github.com/bcfl/predict/internal/tui"
	"github.com/bcfl/predict/internal/wizard"
	"github.com/spf13/cobra"
)

var fillFlags struct {
	backendFlags
	roster  string
	history bool
	gate    bool
}

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill in your predictions interactively",
	Long: `Open the four-step prediction form.

Pass the magic link from your confirmation email with --link (or just its
token with --token) to load a saved entry and change it before the deadline.`,
	RunE: runFill,
}

func init() {
	fillCmd.Flags().StringVarP(&fillFlags.endpoint, "endpoint", "e", "", "Backend URL (overrides config)")
	fillCmd.Flags().StringVarP(&fillFlags.token, "token", "t", "", "Token of a saved entry")
	fillCmd.Flags().StringVarP(&fillFlags.link, "link", "l", "", "Magic link of a saved entry")
	fillCmd.Flags().StringVarP(&fillFlags.roster, "roster", "r", "", "Roster YAML with the athletes of each class (overrides config)")
	fillCmd.Flags().BoolVar(&fillFlags.history, "history", false, "Print the session's activity journal on exit")
	fillCmd.Flags().BoolVar(&fillFlags.gate, "gate", false, "Require confirming the episode before the form unlocks")
}

func runFill(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(fillFlags.endpoint, true)
	if err != nil {
		return err
	}
	token, err := resolveToken(fillFlags.token, fillFlags.link)
	if err != nil {
		return err
	}

	rosterPath := cfg.Roster
	if fillFlags.roster != "" {
		rosterPath = fillFlags.roster
	}
	r, err := roster.Load(rosterPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	opts := wizard.Options{
		Roster:  r,
		Backend: newClient(cfg),
		Gated:   cfg.Gate || fillFlags.gate,
	}

	var j *journal.Journal
	if cfg.Journal || fillFlags.history {
		j, err = journal.Open(ctx)
		if err != nil {
			return fmt.Errorf("failed to open journal: %w", err)
		}
		defer func() {
			if err := j.Close(); err != nil {
				logger.Warn("Journal shutdown: %v", err)
			}
		}()
		opts.Journal = j
	}

	ctrl := wizard.New(opts)
	logger.Info("Starting wizard (endpoint=%s, prefill=%t)", cfg.Endpoint, token != "")

	if _, err := tui.Run(ctx, tui.Options{Controller: ctrl, Backend: opts.Backend, Token: token}); err != nil {
		return err
	}

	if st := ctrl.Status(); st.Text != "" && st.Kind != wizard.StatusNeutral {
		fmt.Println(st.Text)
	}
	if fillFlags.history && j != nil {
		return printHistory(ctx, os.Stdout, j)
	}
	return nil
}

type historySource interface {
	History(ctx context.Context) ([]journal.Event, error)
}

func printHistory(ctx context.Context, w io.Writer, src historySource) error {
	events, err := src.History(ctx)
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}
	for _, ev := range events {
		line := fmt.Sprintf("%s  step %d  %-10s %-8s", ev.Timestamp.Format(time.TimeOnly), ev.Step+1, ev.Type, ev.Action)
		if ev.Detail != "" {
			line += "  " + ev.Detail
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
