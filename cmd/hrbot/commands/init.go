package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/acmecorp/hrbot/internal/config"
	"github.com/acmecorp/hrbot/internal/hr"
	"github.com/acmecorp/hrbot/internal/policy"
)

func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize hrbot configuration",
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := config.ConfigPath()
	cfg := config.DefaultConfig()

	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Config already exists: %s\n", configPath)
	} else {
		if err := os.MkdirAll(config.ConfigDir(), 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
	}

	if err := os.MkdirAll(cfg.Data.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if _, err := os.Stat(cfg.Policy.RulesFile); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(cfg.Policy.RulesFile), 0755); err != nil {
			return fmt.Errorf("failed to create rules directory: %w", err)
		}
		if err := os.WriteFile(cfg.Policy.RulesFile, []byte(policy.DefaultRulesYAML), 0644); err != nil {
			return fmt.Errorf("failed to write default rules: %w", err)
		}
	}

	store, err := hr.Open(cfg.Data.Database)
	if err != nil {
		return err
	}
	defer store.Close()
	if cfg.Data.SeedDemo {
		if err := store.Seed(context.Background()); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	fmt.Printf("hrbot initialized!\n")
	fmt.Printf("Config:   %s\n", configPath)
	fmt.Printf("Rules:    %s\n", cfg.Policy.RulesFile)
	fmt.Printf("Database: %s\n", cfg.Data.Database)
	fmt.Printf("\nNext steps:\n")
	fmt.Printf("1. Edit %s to add your API keys\n", configPath)
	fmt.Printf("2. Run 'hrbot chat --user ana.petrov@acmecorp.com' to start chatting\n")

	return nil
}
