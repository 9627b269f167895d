package main

import (
	"fmt"
	"os"

	"github.com/bcfl/predict/internal/config"
	"github.com/spf13/cobra"
)

var setupFlags struct {
	project  bool
	force    bool
	endpoint string
	roster   string
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create bcfl configuration file",
	Long: `Create a bcfl configuration file with sensible defaults.

By default, creates a global config at ~/.config/bcfl/bcfl.yml.
Use --project to create a project-local config in the current directory.`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVarP(&setupFlags.project, "project", "p", false, "Create config in current directory instead of global location")
	setupCmd.Flags().BoolVarP(&setupFlags.force, "force", "f", false, "Overwrite existing config file")
	setupCmd.Flags().StringVarP(&setupFlags.endpoint, "endpoint", "e", "", "Backend URL")
	setupCmd.Flags().StringVarP(&setupFlags.roster, "roster", "r", "", "Roster YAML path")
}

func runSetup(cmd *cobra.Command, args []string) error {
	targetPath := config.GlobalPath()
	if setupFlags.project {
		targetPath = config.ProjectPath()
	}

	if !setupFlags.force && fileExists(targetPath) {
		return fmt.Errorf("config file already exists at %s\n\nUse --force to overwrite", targetPath)
	}

	cfg := config.Default()
	cfg.Endpoint = setupFlags.endpoint
	cfg.Roster = setupFlags.roster
	if cfg.Endpoint != "" {
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	var err error
	if setupFlags.project {
		err = config.WriteProject(cfg)
	} else {
		err = config.WriteGlobal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("Config written to: %s\n\n", targetPath)
	if cfg.Endpoint == "" {
		fmt.Println("Set 'endpoint' in the file (or BCFL_ENDPOINT) before running 'bcfl fill'.")
	} else {
		fmt.Println("Run 'bcfl fill' to get started.")
	}
	return nil
}

// fileExists checks if a file exists (helper for setup command).
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
