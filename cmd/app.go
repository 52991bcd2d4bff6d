// Package cmd implements the CLI application to analyze fiscal documents.
package cmd

import (
	"context"
	"fmt"

	"github.com/contabhub/sped/container"
	"github.com/contabhub/sped/store"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package calls Register() and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&analyzeCmd{}, "analysis")
	c.Register(&showCmd{}, "analysis")

	c.Register(&topicCmd{}, "documentation")
	c.Register(&assistCmd{}, "assistant")
}

// openWalker builds a persisting walker from the environment. The returned
// close function releases the store connection.
func openWalker(ctx context.Context, policy container.DuplicatePolicy) (*container.Walker, func(), error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("store configuration: %w", err)
	}
	db, err := store.Open(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	w := &container.Walker{
		Store:         db,
		TenantID:      cfg.TenantID,
		DefaultRegion: cfg.DefaultRegion,
		OnDuplicate:   policy,
	}
	return w, db.Close, nil
}
