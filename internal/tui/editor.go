package tui

import (
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/bcfl/predict/internal/logger"
	"github.com/charmbracelet/x/editor"
)

// openEditor writes the entry to a temp YAML file and opens $EDITOR on it.
// The edited file is read back into an entryEditedMsg.
func openEditor(content []byte) tea.Cmd {
	tmpfile, err := os.CreateTemp("", "bcfl_entry_*.yml")
	if err != nil {
		logger.Warn("Failed to create editor file: %v", err)
		return nil
	}
	path := tmpfile.Name()

	if _, err := tmpfile.Write(content); err != nil {
		_ = tmpfile.Close()
		_ = os.Remove(path)
		return nil
	}
	_ = tmpfile.Close()

	cmd, err := editor.Command("bcfl", path)
	if err != nil {
		logger.Warn("Failed to build editor command: %v", err)
		_ = os.Remove(path)
		return nil
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		if err != nil {
			return entryEditedMsg{path: path, err: err}
		}
		data, err := os.ReadFile(path)
		return entryEditedMsg{path: path, data: data, err: err}
	})
}
