package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/thinktwice-app/thinktwice/internal/config"
	"github.com/thinktwice-app/thinktwice/internal/engine"
	"github.com/thinktwice-app/thinktwice/internal/service"
	"github.com/thinktwice-app/thinktwice/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDBPath
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initEngine initializes storage and wires the analytics engine on top.
func initEngine(ctx context.Context) (*engine.Engine, service.Storage, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, err
	}
	return engine.New(store), store, nil
}

// resolveGoalID finds a goal by full ID or unique prefix.
func resolveGoalID(ctx context.Context, eng *engine.Engine, idOrPrefix string) (string, error) {
	goals, err := eng.ListGoals(ctx)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, g := range goals {
		if g.ID == idOrPrefix {
			return g.ID, nil
		}
		if strings.HasPrefix(g.ID, idOrPrefix) {
			matches = append(matches, g.ID)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("no goal matches %q", idOrPrefix)
	default:
		return "", fmt.Errorf("%q is ambiguous: %d goals match", idOrPrefix, len(matches))
	}
}

// resolveBudgetID finds a budget by full ID or unique prefix.
func resolveBudgetID(ctx context.Context, eng *engine.Engine, idOrPrefix string) (string, error) {
	budgets, err := eng.ListBudgets(ctx)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, b := range budgets {
		if b.ID == idOrPrefix {
			return b.ID, nil
		}
		if strings.HasPrefix(b.ID, idOrPrefix) {
			matches = append(matches, b.ID)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", fmt.Errorf("no budget matches %q", idOrPrefix)
	default:
		return "", fmt.Errorf("%q is ambiguous: %d budgets match", idOrPrefix, len(matches))
	}
}
