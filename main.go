package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/LFroesch/duet/internal/config"
	"github.com/LFroesch/duet/internal/logger"
)

var (
	configPath string
	debugLog   bool
)

var rootCmd = &cobra.Command{
	Use:   "duet [path]",
	Short: "Dual-pane terminal file browser",
	Long: `duet shows two directories side by side. Select entries in either
pane, then copy, move or delete them into the other one.

Use "duet shell-init" to let "open in terminal" change your shell's
working directory on exit.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runBrowser,
}

var shellInitCmd = &cobra.Command{
	Use:   "shell-init",
	Short: "Print a shell function that follows duet's handoff file",
	Long: `Print a POSIX shell function named "duet" that runs the browser and,
when it exits through "open in terminal", changes into the directory it
left behind and starts $SHELL there.

Add this to your shell rc file:

  eval "$(duet shell-init)"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		exe, err := os.Executable()
		if err != nil {
			exe = "duet"
		}
		fmt.Fprint(cmd.OutOrStdout(), shellInit(exe, cfg.HandoffPath()))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/duet/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "log at debug level")
	rootCmd.AddCommand(shellInitCmd)
}

func runBrowser(cmd *cobra.Command, args []string) error {
	if err := logger.Init(); err != nil {
		// Logging is best effort; the browser works without it.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	defer logger.Close()
	logger.SetDebug(debugLog)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("cannot get home directory: %w", err)
	}
	left, err := startDir(args, home)
	if err != nil {
		return err
	}

	m, err := newModel(left, home, cfg)
	if err != nil {
		return err
	}
	defer m.close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("Program exited with error: %v", err)
		return err
	}
	return nil
}

// loadConfig reads --config when given, otherwise the default location.
func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Load(), nil
	}
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", configPath, err)
	}
	return cfg, nil
}

// startDir is the left pane's initial directory: the argument made
// absolute, or home.
func startDir(args []string, home string) (string, error) {
	if len(args) == 0 {
		return home, nil
	}
	abs, err := filepath.Abs(config.ExpandHome(args[0]))
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", args[0], err)
	}
	return abs, nil
}

func shellInit(exe, handoff string) string {
	return fmt.Sprintf(`duet() {
	%q "$@" || return
	if [ -f %q ]; then
		__duet_dir="$(cat %q)"
		rm -f %q
		if [ -d "$__duet_dir" ]; then
			cd "$__duet_dir" && exec "${SHELL:-/bin/sh}"
		fi
	fi
}
`, exe, handoff, handoff, handoff)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
