package commands

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tltv/timeline-flow/internal/cli/config"
	"github.com/tltv/timeline-flow/internal/tui"
)

// NewViewCommand creates the view command.
func NewViewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Browse the timeline in the terminal",
		Long: `Open an interactive terminal browser for the configured range. Scroll
horizontally with the arrow keys; the block row is drawn from a bounded
element pool that follows the scroll position.`,
		Example: `  # Browse 2020 in weeks
  timeline-flow view --resolution week --start 2020-01-01 --end 2020-12-31

  # Hour resolution across a DST transition
  timeline-flow view -r hour -z America/Los_Angeles --start 2020-03-07 --end 2020-03-09`,
		RunE: runView,
	}
}

func runView(cmd *cobra.Command, _ []string) error {
	cfg := config.GetCurrentConfig()
	if cfg == nil {
		return fmt.Errorf("no configuration loaded")
	}
	logger := config.GetLogger(cmd.Context())

	model, err := tui.New(cfg, logger)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal ui: %w", err)
	}
	return nil
}
