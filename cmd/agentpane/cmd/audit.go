package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/agentpane/internal/audit"
	"github.com/Dicklesworthstone/agentpane/internal/config"
)

var flagAuditLimit int

func init() {
	auditCmd.Flags().IntVar(&flagAuditLimit, "limit", 50, "maximum entries to show")
}

// auditCmd lists recorded agent write requests.
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List recent agent write requests and their outcomes",
	Long: `Shows the most recent agent write requests recorded in the audit
database: what the agent wanted to type, under which trust level, and
what was decided.

Examples:
  agentpane audit
  agentpane audit --limit 100`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		path := cfg.AuditPath
		if path == "" {
			path = audit.DefaultPath()
		}

		store, err := audit.OpenAt(path)
		if err != nil {
			return fmt.Errorf("open audit store: %w", err)
		}
		defer store.Close()

		entries, err := store.Recent(flagAuditLimit)
		if err != nil {
			return fmt.Errorf("read audit entries: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("no recorded agent writes")
			return nil
		}

		fmt.Printf("%-20s %-9s %-13s %6s  %s\n", "WHEN", "OUTCOME", "TRUST", "BYTES", "DESCRIPTION")
		for _, e := range entries {
			when := e.CreatedAt.Local().Format("2006-01-02 15:04:05")
			outcome := e.Outcome
			if e.PasswordGated {
				outcome += "*"
			}
			fmt.Printf("%-20s %-9s %-13s %6d  %s\n", when, outcome, e.Trust, e.ByteCount, e.Description)
		}
		if hasPasswordGated(entries) {
			fmt.Println("\n* password prompt was active")
		}
		return nil
	},
}

func hasPasswordGated(entries []audit.Entry) bool {
	for _, e := range entries {
		if e.PasswordGated {
			return true
		}
	}
	return false
}

// configCmd prints the resolved configuration paths.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show configuration and data paths",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		auditPath := cfg.AuditPath
		if auditPath == "" {
			auditPath = audit.DefaultPath()
		}
		command := cfg.Command
		if command == "" {
			command = "$SHELL"
		}
		fmt.Printf("config:  %s\n", config.ConfigPath())
		fmt.Printf("audit:   %s\n", auditPath)
		fmt.Printf("command: %s\n", strings.TrimSpace(command+" "+strings.Join(cfg.Args, " ")))
		fmt.Printf("trust:   %s\n", cfg.Trust)
		fmt.Printf("size:    %dx%d\n", cfg.Rows, cfg.Cols)
		return nil
	},
}

// Version is stamped at build time via -ldflags.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("agentpane %s\n", Version)
	},
}
