// Package cli wires the steward command-line interface.
package cli

import (
	"context"
	"fmt"

	"steward/internal/client"
	"steward/internal/constants"

	"github.com/spf13/cobra"
)

// ServeFunc runs the service in the foreground until the context is
// cancelled. Wired by the app package.
type ServeFunc func(ctx context.Context, configPath string) error

// Manager handles CLI operations
type Manager struct {
	rootCmd *cobra.Command
	serve   ServeFunc
}

// New creates a new CLI manager
func New(serve ServeFunc) *Manager {
	m := &Manager{serve: serve}
	m.rootCmd = m.createRootCommand()
	return m
}

// ExecuteWithContext runs the CLI with the given arguments
func (m *Manager) ExecuteWithContext(ctx context.Context, args []string) error {
	m.rootCmd.SetArgs(args)
	return m.rootCmd.ExecuteContext(ctx)
}

func (m *Manager) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "steward",
		Short: "Service lifecycle supervisor",
		Long: `steward supervises the lifecycle of a long-running service: it connects
the datastore, binds the HTTP listener, and reports status and transition
history while running.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(m.createServeCommand())
	rootCmd.AddCommand(m.createStatusCommand())
	rootCmd.AddCommand(m.createTransitionsCommand())
	rootCmd.AddCommand(createVersionCommand())

	return rootCmd
}

func (m *Manager) createServeCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the service and serve until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return m.serve(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to config.toml")
	return cmd
}

func (m *Manager) createStatusCommand() *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the status of a running instance",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := client.New(serverURL)
			if err != nil {
				return err
			}

			report, err := api.Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to fetch status: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "service: %s\nstatus:  %s\nuptime:  %ds\nversion: %s\n",
				report.Service, report.Status, report.Uptime, report.Version)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", fmt.Sprintf("http://localhost:%d", constants.DefaultServerPort), "base URL of the running instance")
	return cmd
}

func (m *Manager) createTransitionsCommand() *cobra.Command {
	var serverURL string
	var limit int

	cmd := &cobra.Command{
		Use:   "transitions",
		Short: "Show recent lifecycle transitions",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := client.New(serverURL)
			if err != nil {
				return err
			}

			transitions, err := api.Transitions(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to fetch transitions: %w", err)
			}

			for _, tr := range transitions {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s -> %s  %s\n",
					tr.CreatedAt.Format("2006-01-02 15:04:05"), tr.FromStatus, tr.ToStatus, tr.Note)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", fmt.Sprintf("http://localhost:%d", constants.DefaultServerPort), "base URL of the running instance")
	cmd.Flags().IntVar(&limit, "limit", constants.DefaultTransitionLimit, "maximum number of transitions to show")
	return cmd
}

func createVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the steward version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), constants.Version)
		},
	}
}
