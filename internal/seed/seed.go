// Package seed installs the default category set on first run.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"subtracker/internal/core"
	"subtracker/internal/storage"

	"github.com/google/uuid"
)

//go:embed categories.yaml
var categoriesYAML []byte

type seedFile struct {
	Categories []struct {
		Name  string `yaml:"name"`
		Color string `yaml:"color"`
		Icon  string `yaml:"icon"`
	} `yaml:"categories"`
}

// EnsureCategories seeds the default categories into an empty database.
// A database that already has categories is left alone, so user edits and
// deletions survive restarts.
func EnsureCategories(ctx context.Context, repo *storage.SQLiteRepository) error {
	n, err := repo.CountCategories(ctx)
	if err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if n > 0 {
		return nil
	}

	var file seedFile
	if err := yaml.Unmarshal(categoriesYAML, &file); err != nil {
		return fmt.Errorf("parse seed categories: %w", err)
	}

	for i, c := range file.Categories {
		cat := core.Category{
			ID:        uuid.New(),
			Name:      c.Name,
			Color:     c.Color,
			Icon:      c.Icon,
			SortOrder: i,
		}
		if err := cat.Validate(); err != nil {
			return fmt.Errorf("invalid seed category %q: %w", c.Name, err)
		}
		if err := repo.CreateCategory(ctx, cat); err != nil {
			return fmt.Errorf("seed category %q: %w", c.Name, err)
		}
	}

	slog.InfoContext(ctx, "Seeded default categories", "count", len(file.Categories))
	return nil
}
