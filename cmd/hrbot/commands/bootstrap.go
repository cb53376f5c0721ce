package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/acmecorp/hrbot/internal/agent"
	"github.com/acmecorp/hrbot/internal/audit"
	"github.com/acmecorp/hrbot/internal/config"
	"github.com/acmecorp/hrbot/internal/dispatch"
	"github.com/acmecorp/hrbot/internal/hr"
	"github.com/acmecorp/hrbot/internal/policy"
	"github.com/acmecorp/hrbot/internal/session"
)

// runtime bundles the wired components shared by chat, serve, and policy.
type runtime struct {
	cfg      *config.Config
	store    *hr.Store
	engine   *policy.Engine
	sessions *session.Store
	orch     *agent.Orchestrator
}

func (r *runtime) Close() {
	if r.store != nil {
		_ = r.store.Close()
	}
}

// buildRuntime opens storage, loads the rule set, and wires the
// orchestration loop around the given proposer.
func buildRuntime(ctx context.Context, cfg *config.Config, proposer agent.Proposer) (*runtime, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Data.Database), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	store, err := hr.Open(cfg.Data.Database)
	if err != nil {
		return nil, err
	}
	if cfg.Data.SeedDemo {
		if err := store.Seed(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
	}

	engine := policy.NewEngine(hr.NewDirectory(store))
	rules, err := loadRules(cfg.Policy.RulesFile)
	if err != nil {
		store.Close()
		return nil, err
	}
	engine.Replace(rules)
	slog.Info("policy rules loaded", "file", cfg.Policy.RulesFile, "count", len(rules))

	sessions := session.NewStore(cfg.Session.MaxHistory)
	dispatcher := dispatch.New(store, slog.Default())
	auditor := audit.NewWriter(cfg.Data.Dir)

	orch := agent.NewOrchestrator(proposer, engine, dispatcher, sessions, store, agent.Options{
		MaxTurns: cfg.Assistant.MaxTurns,
		Auditor:  auditor,
	})

	return &runtime{
		cfg:      cfg,
		store:    store,
		engine:   engine,
		sessions: sessions,
		orch:     orch,
	}, nil
}

// loadRules reads the configured rule file, falling back to the built-in
// defaults when the file does not exist yet.
func loadRules(path string) ([]policy.Rule, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		slog.Warn("rules file missing, using built-in defaults", "file", path)
		return policy.ParseRules([]byte(policy.DefaultRulesYAML))
	}
	return policy.LoadFile(path)
}
