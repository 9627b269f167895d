package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bcfl/predict/internal/wizard"
	"github.com/spf13/cobra"
)

var prefillFlags backendFlags

var prefillCmd = &cobra.Command{
	Use:   "prefill",
	Short: "Print a saved entry as YAML",
	Long: `Fetch a saved entry by token and print it as YAML.

The output can be edited and sent back with 'bcfl submit --file'; it keeps the
token, so the backend updates the saved entry instead of creating a new one.`,
	RunE: runPrefill,
}

func init() {
	prefillCmd.Flags().StringVarP(&prefillFlags.endpoint, "endpoint", "e", "", "Backend URL (overrides config)")
	prefillCmd.Flags().StringVarP(&prefillFlags.token, "token", "t", "", "Token of a saved entry")
	prefillCmd.Flags().StringVarP(&prefillFlags.link, "link", "l", "", "Magic link of a saved entry")
}

func runPrefill(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(prefillFlags.endpoint, true)
	if err != nil {
		return err
	}
	token, err := resolveToken(prefillFlags.token, prefillFlags.link)
	if err != nil {
		return err
	}
	if token == "" {
		return errors.New("a token is required: use --token or --link")
	}
	return prefillEntry(cmd.Context(), os.Stdout, newClient(cfg), token)
}

// prefillEntry loads a saved entry and writes it as YAML.
func prefillEntry(ctx context.Context, w io.Writer, backend wizard.Backend, token string) error {
	ctrl := wizard.New(wizard.Options{Backend: backend})
	if err := ctrl.Prefill(ctx, token); err != nil {
		return statusError(ctrl.Status().Text, err)
	}

	out, err := ctrl.ExportYAML()
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("writing entry: %w", err)
	}
	return nil
}
