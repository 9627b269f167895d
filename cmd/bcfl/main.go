package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/bcfl/predict/internal/logger"
	"github.com/bcfl/predict/internal/tui/theme"
	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	logoText1 = "█▄▄ █▀▀ █▀▀ █  "
	logoText2 = "█▄█ █▄▄ █▀  █▄▄"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	// Reported by loadConfig once the configured log file is open.
	dotenvErr = loadDotEnv()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

// dotenvErr holds a .env load failure until logging is configured.
var dotenvErr error

// loadDotEnv loads .env files into the environment. Missing files are fine.
func loadDotEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

var rootCmd = &cobra.Command{
	Use:   "bcfl",
	Short: "Enter your powerlifting predictions from the terminal",
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

bcfl collects your predictions for the competition (weight-class winners,
confidence ranks, winning totals and best lifters) in a four-step form and
sends them to the league backend. The magic link from your confirmation email
reopens a saved entry so you can change it before the deadline.`

	rootCmd.AddCommand(fillCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(prefillCmd)
	rootCmd.AddCommand(setupCmd)
}
