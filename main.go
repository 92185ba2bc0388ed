package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pricepilot/config"
	"pricepilot/model"
	"pricepilot/provider"
	"pricepilot/storage"
	"pricepilot/ui"
)

const (
	Version = "v0.1.0"
	License = "Apache-2.0"
)

var errNotTerminal = errors.New("pricepilot chat needs an interactive terminal")

var rootCmd = &cobra.Command{
	Use:   "pricepilot",
	Short: "Chat with the PricePilot pricing assistant",
	Long: `PricePilot is a terminal client for the pricing assistant.
Questions are sent together with your business profile and a summary of
your uploaded booking datasets, and answers stream in as they are written.`,
	Version:       Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(datasetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setup loads config, starts debug logging and opens the workspace store.
func setup() (*config.Config, *storage.WorkspaceStore, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	config.InitDebugLog(cfg.DataDir())

	store, err := storage.NewWorkspaceStore(cfg.DataDir())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workspace: %w", err)
	}

	return cfg, store, nil
}

func runChat() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNotTerminal
	}

	cfg, store, err := setup()
	if err != nil {
		showStartupError("Startup Error", err)
		return err
	}
	defer store.Close()

	p := provider.InitializeProvider(cfg)
	if p == nil && config.DebugLog != nil {
		config.DebugLog.Printf("[Main] no provider available for %q, running offline", cfg.Provider)
	}

	session := model.NewSession(p, store, model.SessionConfig{
		Greeting:       cfg.Greeting,
		RequestTimeout: cfg.RequestTimeout,
	})

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Main] PricePilot %s starting (provider=%s, timeout=%v)", Version, session.ProviderName(), cfg.RequestTimeout)
	}

	program := tea.NewProgram(
		ui.NewAppView(cfg, session),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

func showStartupError(title string, err error) {
	p := tea.NewProgram(ui.NewErrorModal(title, err.Error()), tea.WithAltScreen())
	if _, runErr := p.Run(); runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
	}
}
