package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pdxmph/taskflow/internal/tui"
)

func runTUI(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	model, err := tui.New(tui.Options{
		Store:     e.store,
		Sessions:  e.sessions,
		Telemetry: e.telemetry,
		Features:  e.cfg.Features,
		Logger:    e.logger,
		Notice:    e.notice,
	})
	if err != nil {
		return err
	}

	// Start the program
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
