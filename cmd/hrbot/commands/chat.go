package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/acmecorp/hrbot/internal/agent"
	"github.com/acmecorp/hrbot/internal/config"
	"github.com/acmecorp/hrbot/internal/provider"
	"github.com/acmecorp/hrbot/internal/render"
)

func NewChatCmd() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Chat with the HR assistant",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), user, args)
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "Employee email to chat as (required)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func runChat(ctx context.Context, user string, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	model, err := provider.NewChatModel(ctx, cfg)
	if err != nil {
		return fmt.Errorf("no model configured: %w", err)
	}

	rt, err := buildRuntime(ctx, cfg, agent.NewLLMProposer(model))
	if err != nil {
		return err
	}
	defer rt.Close()

	sessionID := "cli:" + user

	if len(args) > 0 {
		message := strings.Join(args, " ")
		resp, err := rt.orch.Chat(ctx, sessionID, user, message)
		if err != nil {
			return err
		}
		fmt.Println(render.Markdown(resp))
		return nil
	}

	fmt.Println(render.Notice(fmt.Sprintf("hrbot ready, chatting as %s. Type 'exit' to quit.", user)))
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("\n" + render.Prompt(user))
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "exit" || input == "quit" {
			break
		}
		if input == "" {
			continue
		}

		resp, err := rt.orch.Chat(ctx, sessionID, user, input)
		if err != nil {
			fmt.Println(render.Error("Error: " + err.Error()))
			continue
		}
		fmt.Println(render.Markdown(resp))
	}

	return nil
}
