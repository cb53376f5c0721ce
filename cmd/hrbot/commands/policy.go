package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/acmecorp/hrbot/internal/config"
	"github.com/acmecorp/hrbot/internal/policy"
)

var (
	ruleNameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8E4EC6")).
			Bold(true)

	ruleMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	allowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	denyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87")).
			Bold(true)
)

func NewPolicyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Inspect and test authorization rules",
	}
	cmd.AddCommand(
		newPolicyListCmd(),
		newPolicyCheckCmd(),
		newPolicyConditionsCmd(),
	)
	return cmd
}

func newPolicyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active rules in evaluation order",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			rules, err := loadRules(cfg.Policy.RulesFile)
			if err != nil {
				return err
			}
			engine := policy.NewEngine(nil)
			engine.Replace(rules)

			for _, r := range engine.Rules() {
				actions := "all actions"
				if len(r.Actions) > 0 {
					actions = strings.Join(r.Actions, ", ")
				}
				fmt.Printf("%s  %s\n", ruleNameStyle.Render(r.Name), effectRender(r.Effect))
				fmt.Println(ruleMetaStyle.Render(fmt.Sprintf("  priority %d | %s", r.Priority, actions)))
				if r.Description != "" {
					fmt.Println(ruleMetaStyle.Render("  " + r.Description))
				}
			}
			return nil
		},
	}
}

func newPolicyCheckCmd() *cobra.Command {
	var (
		user   string
		action string
		target int64
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate one authorization decision",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			rt, err := buildRuntime(ctx, cfg, nil)
			if err != nil {
				return err
			}
			defer rt.Close()

			requester, err := rt.store.RequesterContext(ctx, user)
			if err != nil {
				return err
			}

			allowed, rule, matched := rt.engine.Explain(ctx, policy.Context{
				RequesterID:    requester.EmployeeID,
				RequesterEmail: requester.Email,
				RequesterRole:  policy.Role(requester.Role),
				Action:         action,
				TargetID:       target,
			})

			verdict := denyStyle.Render("DENY")
			if allowed {
				verdict = allowStyle.Render("ALLOW")
			}
			ruleName := "default deny (no rule matched)"
			if matched {
				ruleName = rule.Name
			}
			fmt.Printf("%s  %s as %s (role %s)\n", verdict, action, requester.Email, requester.Role)
			fmt.Println(ruleMetaStyle.Render("  decided by: " + ruleName))
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Requester employee email")
	cmd.Flags().StringVar(&action, "action", "", "Action name to check")
	cmd.Flags().Int64Var(&target, "target", 0, "Target employee id (0 = self)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("action")
	return cmd
}

func newPolicyConditionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "conditions",
		Short: "List the available condition ids",
		Run: func(cmd *cobra.Command, args []string) {
			ids := policy.ConditionIDs()
			sort.Strings(ids)
			for _, id := range ids {
				fmt.Println(id)
			}
		},
	}
}

func effectRender(effect policy.Effect) string {
	if effect == policy.EffectAllow {
		return allowStyle.Render("allow")
	}
	return denyStyle.Render("deny")
}
