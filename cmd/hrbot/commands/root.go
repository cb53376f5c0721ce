package commands

import (
	"github.com/spf13/cobra"

	"github.com/acmecorp/hrbot/internal/config"
)

var logLevelOverride string

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hrbot",
		Short: "hrbot - policy-gated HR assistant",
		Long:  `hrbot is a conversational HR assistant whose every action passes through a declarative policy engine and, for sensitive operations, explicit user confirmation.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "init" {
				return configureLogger(config.DefaultConfig(), logLevelOverride, false)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return configureLogger(cfg, logLevelOverride, cmd.Name() == "chat")
		},
	}

	cmd.PersistentFlags().StringVar(&logLevelOverride, "log-level", "", "Override log level (debug|info|warn|error)")

	cmd.AddCommand(
		NewInitCmd(),
		NewChatCmd(),
		NewServeCmd(),
		NewPolicyCmd(),
		NewVersionCmd(),
	)

	return cmd
}
