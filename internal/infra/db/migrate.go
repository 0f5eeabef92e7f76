package db

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"

	"ariga.io/atlas-go-sdk/atlasexec"
	"ariga.io/atlas/sql/migrate"
)

// Migrate applies pending versioned migrations with the atlas CLI found at atlasBin.
func Migrate(ctx context.Context, dsn, atlasBin string, logger *slog.Logger) error {
	if err := ValidateMigrations(); err != nil {
		return err
	}

	workdir, err := atlasexec.NewWorkingDir(atlasexec.WithMigrations(Migrations()))
	if err != nil {
		return fmt.Errorf("failed to prepare migration directory: %w", err)
	}
	defer workdir.Close()

	client, err := atlasexec.NewClient(workdir.Path(), atlasBin)
	if err != nil {
		return fmt.Errorf("failed to initialize atlas client: %w", err)
	}

	res, err := client.MigrateApply(ctx, &atlasexec.MigrateApplyParams{
		URL:    dsn,
		DirURL: "file://migrations",
	})
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	logger.Info("migrations applied", "count", len(res.Applied), "current", res.Current, "target", res.Target)
	return nil
}

// ValidateMigrations checks the embedded migrations against their atlas.sum.
func ValidateMigrations() error {
	return ValidateMigrationDir(Migrations())
}

// ValidateMigrationDir runs atlas's directory integrity check over fsys.
func ValidateMigrationDir(fsys fs.FS) error {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("failed to read migration directory: %w", err)
	}

	dir := &migrate.MemDir{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		b, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", e.Name(), err)
		}
		if err := dir.WriteFile(e.Name(), b); err != nil {
			return err
		}
	}

	if err := migrate.Validate(dir); err != nil {
		return fmt.Errorf("migration directory integrity: %w", err)
	}
	return nil
}
