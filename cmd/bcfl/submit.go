package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bcfl/predict/internal/entry"
	"github.com/bcfl/predict/internal/remote"
	"github.com/bcfl/predict/internal/wizard"
	"github.com/charmbracelet/colorprofile"
	"github.com/spf13/cobra"
)

var submitFlags struct {
	backendFlags
	file   string
	dryRun bool
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit an entry from a YAML file",
	Long: `Validate an entry file and submit it without opening the form.

The file maps field ids to values, the same layout 'bcfl prefill' prints:

  email: you@example.com
  leaderboardName: Team A
  w47w: Jane Doe
  c47w: 3
  t47w: 865.5
  ...

Every step is validated and every error is reported before anything is sent.
With --dry-run the request body is printed instead of sent.`,
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().StringVarP(&submitFlags.file, "file", "f", "", "Entry YAML file (required)")
	submitCmd.Flags().StringVarP(&submitFlags.endpoint, "endpoint", "e", "", "Backend URL (overrides config)")
	submitCmd.Flags().BoolVar(&submitFlags.dryRun, "dry-run", false, "Print the request body instead of sending it")
	_ = submitCmd.MarkFlagRequired("file")
}

// errInvalidEntry is returned when the entry file fails validation.
var errInvalidEntry = errors.New("entry is incomplete")

func runSubmit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(submitFlags.endpoint, !submitFlags.dryRun)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(submitFlags.file)
	if err != nil {
		return fmt.Errorf("failed to read entry: %w", err)
	}

	var backend wizard.Backend
	if !submitFlags.dryRun {
		backend = newClient(cfg)
	}
	profile := colorprofile.Detect(os.Stdout, os.Environ())
	return submitEntry(cmd.Context(), os.Stdout, backend, data, profile)
}

// submitEntry loads, validates and submits an entry. A nil backend prints
// the request body instead.
func submitEntry(ctx context.Context, w io.Writer, backend wizard.Backend, data []byte, profile colorprofile.Profile) error {
	ctrl := wizard.New(wizard.Options{Backend: backend})
	if _, err := ctrl.ImportYAML(data); err != nil {
		return err
	}

	if errs := entry.ValidateAll(ctrl.State()); !errs.Valid() {
		for _, line := range formatErrors(errs) {
			_, _ = fmt.Fprintln(w, line)
		}
		return fmt.Errorf("%w: %d problems", errInvalidEntry, len(errs))
	}

	if backend == nil {
		body, err := json.MarshalIndent(remote.NewSubmitRequest(ctrl.State().Trimmed()), "", "  ")
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		_, err = fmt.Fprintln(w, highlightJSON(string(body), profile))
		return err
	}

	if err := ctrl.Submit(ctx); err != nil {
		return statusError(ctrl.Status().Text, err)
	}
	_, err := fmt.Fprintln(w, ctrl.Status().Text)
	return err
}

// formatErrors lists validation messages in form order.
func formatErrors(errs entry.Errors) []string {
	var lines []string
	for _, id := range entry.FieldIDs() {
		if msg := errs.For(id); msg != "" {
			lines = append(lines, fmt.Sprintf("%-16s %s", id+":", msg))
		}
	}
	return lines
}
