// Package cmd implements the CLI commands for agentpane.
//
// agentpane embeds a real shell in a TUI pane and arbitrates control of
// it between the human at the keyboard and an AI agent. The human can
// drop into the shell at any time; the agent can only type through a
// permission gateway that the human configures and that always asks
// before anything is typed into a password prompt.
package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Dicklesworthstone/agentpane/internal/audit"
	"github.com/Dicklesworthstone/agentpane/internal/config"
	"github.com/Dicklesworthstone/agentpane/internal/logs"
	"github.com/Dicklesworthstone/agentpane/internal/pane"
	"github.com/Dicklesworthstone/agentpane/internal/permission"
	"github.com/Dicklesworthstone/agentpane/internal/tui"
)

var (
	flagCommand string
	flagTrust   string
	flagNoAudit bool
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "agentpane",
	Short: "Embedded terminal pane shared between you and an AI agent",
	Long: `agentpane runs a shell inside a TUI pane that both you and an AI
agent can drive - but never at the same time, and never without your
say-so.

Modes:
  agent          your keys stay local, the agent is read-only (default)
  terminal       ctrl+t drops you into the shell; keys go straight in
  agent+terminal the agent may type, each write vetted by your trust level

Trust levels (config or --trust):
  ask-first      approve the agent's first write, the rest run freely
  always-ask     approve every agent write (default)
  always-allow   agent writes run immediately

Whatever the trust level, a write aimed at a password prompt always
requires your explicit approval.

Run 'agentpane' without arguments to start the pane.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPane()
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// isTerminal returns true if stdout is a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagCommand, "command", "", "program to run in the pane (default: $SHELL)")
	rootCmd.PersistentFlags().StringVar(&flagTrust, "trust", "", "agent trust level: ask-first, always-ask, always-allow")
	rootCmd.Flags().BoolVar(&flagNoAudit, "no-audit", false, "skip recording agent writes to the audit database")

	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func runPane() error {
	if !isTerminal() {
		return fmt.Errorf("agentpane needs a terminal on stdout")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flagCommand != "" {
		cfg.Command = flagCommand
	}
	if flagTrust != "" {
		cfg.Trust = flagTrust
	}

	trust, err := permission.ParseTrust(cfg.Trust)
	if err != nil {
		return err
	}

	logger, logCloser, err := logs.Open(cfg.LogPath)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logCloser.Close()

	var store *audit.Store
	if !flagNoAudit {
		path := cfg.AuditPath
		if path == "" {
			path = audit.DefaultPath()
		}
		store, err = audit.OpenAt(path)
		if err != nil {
			return fmt.Errorf("open audit store: %w", err)
		}
		defer store.Close()
	}

	p := pane.New(pane.Options{
		Command:    cfg.Command,
		Args:       cfg.Args,
		Rows:       cfg.Rows,
		Cols:       cfg.Cols,
		Trust:      trust,
		Scrollback: cfg.Scrollback,
		Audit:      store,
		Logger:     logger,
	})
	defer p.Close()

	// Trust-level edits in the config file apply without a restart.
	watcher, err := config.Watch(config.ConfigPath(), func(c *config.Config) {
		if t, err := permission.ParseTrust(c.Trust); err == nil {
			p.SetTrust(t)
			logger.Printf("trust level now %s", t)
		}
	})
	if err != nil {
		logger.Printf("config watch unavailable: %v", err)
	} else {
		defer watcher.Close()
	}

	prog := tea.NewProgram(tui.New(p), tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
