package cmd

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/tayloree/appliance-compare/internal/browse"
	"github.com/tayloree/appliance-compare/internal/display"
	"github.com/tayloree/appliance-compare/internal/toast"
	"github.com/tayloree/appliance-compare/internal/urlstate"
	"golang.org/x/term"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse and compare products interactively in the terminal",
	Example: `  appcmp tui --category dehumidifier
  appcmp tui -c air-purifier --sort noise_asc --in-stock`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	registerListFlags(tuiCmd.Flags())
}

func runTUI(cmd *cobra.Command, _ []string) error {
	st, err := buildListState()
	if err != nil {
		return err
	}
	if !flagJSON && !isInteractiveSession(cmd.InOrStdin(), cmd.OutOrStdout()) {
		return invalidArgsError(
			"`appcmp tui` requires an interactive terminal",
			"Use `appcmp --category dehumidifier --json` in pipelines.",
		)
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if flagJSON {
		snap, err := a.load(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		view := browse.New(snap.Category(st.Category), st).View()
		return display.PrintProductsJSON(cmd.OutOrStdout(), view, urlstate.Encode(view.State).Encode(), a.favoriteSet(cmd.Context()))
	}

	changed := make(chan struct{}, 1)
	a.toasts.Close()
	a.toasts = toast.NewManager(func([]toast.Toast) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	model := newLoadingBrowseTUIModel(tuiLoadConfig{
		ctx:          cmd.Context(),
		app:          a,
		initialState: st,
		toastChanged: changed,
	})
	program := tea.NewProgram(
		model,
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
		tea.WithAltScreen(),
	)
	final, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(browseTUIModel); ok && m.fatalErr != nil {
		return fmt.Errorf("loading catalog: %w", m.fatalErr)
	}
	return nil
}

func isInteractiveSession(stdin io.Reader, stdout io.Writer) bool {
	inputFile, ok := stdin.(*os.File)
	if !ok {
		return false
	}
	if !term.IsTerminal(int(inputFile.Fd())) {
		return false
	}
	return isTTY(stdout)
}
