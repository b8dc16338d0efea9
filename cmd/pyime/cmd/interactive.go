package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/pyime/internal/tui"
	"github.com/spf13/cobra"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"i", "ui"},
	Short:   "Launch the typing sandbox",
	Long: `Launch a terminal sandbox that types through the input engine.

Controls:
  a-z       Tap letters
  space     End the current syllable
  1-9, 0    Choose a candidate
  ←/→       Move between words to re-choose
  tab       Filter candidates by tone
  enter     Commit the phrase (trains the model)
  ctrl+o    Commit options (pinyin, variants)
  ?         Help
  ctrl+c    Quit`,
	RunE: runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	e, st, err := openEngine(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if cfg.Watch {
		go e.WatchModel(cmd.Context())
	}

	p := tea.NewProgram(
		tui.New(cmd.Context(), e.NewSession(cfg.KeyboardMode())),
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}
