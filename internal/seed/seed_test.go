package seed

import (
	"context"
	"path/filepath"
	"testing"

	"subtracker/internal/storage"
)

func TestEnsureCategories(t *testing.T) {
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	defer repo.Close()
	ctx := context.Background()

	if err := EnsureCategories(ctx, repo); err != nil {
		t.Fatalf("EnsureCategories: %v", err)
	}

	cats, err := repo.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(cats) != 5 {
		t.Fatalf("seeded = %d, want 5", len(cats))
	}
	if cats[0].Name != "视频流媒体" || cats[0].Color != "#E53935" {
		t.Errorf("first category = %+v", cats[0])
	}

	// Second run must not duplicate.
	if err := EnsureCategories(ctx, repo); err != nil {
		t.Fatalf("EnsureCategories second run: %v", err)
	}
	cats, err = repo.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(cats) != 5 {
		t.Errorf("after second run = %d, want 5", len(cats))
	}

	// User deletions survive restarts.
	if err := repo.DeleteCategory(ctx, cats[0].ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if err := EnsureCategories(ctx, repo); err != nil {
		t.Fatalf("EnsureCategories after delete: %v", err)
	}
	cats, err = repo.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(cats) != 4 {
		t.Errorf("after delete = %d, want 4", len(cats))
	}
}
