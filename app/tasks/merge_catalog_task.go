package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/wine-comb/app/database"
)

// MergeCatalogTask promotes the current results into the known catalog so
// that later runs reuse them instead of fetching their pages again. Records
// carrying an extraction error are left out and will be fetched again.
type MergeCatalogTask struct {
	Task
	productRepo database.ProductRepository
	catalogRepo database.CatalogRepository
}

func NewMergeCatalogTask(source string, productRepo database.ProductRepository, catalogRepo database.CatalogRepository) *MergeCatalogTask {
	return &MergeCatalogTask{
		Task:        NewTask(TaskTypeMergeCatalog, source),
		productRepo: productRepo,
		catalogRepo: catalogRepo,
	}
}

func (t *MergeCatalogTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	records, err := t.productRepo.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list results: %w", err)
	}

	mergedCount := 0
	skippedCount := 0
	errorCount := 0

	for _, record := range records {
		if record.Error != "" {
			skippedCount++
			continue
		}

		if err := t.catalogRepo.Upsert(record); err != nil {
			slog.Error("Failed to merge record into catalog", "link", record.Link, "error", err)
			errorCount++
			continue
		}
		mergedCount++
	}

	slog.Info("Task completed",
		"type", "MergeCatalog",
		"source", t.Source,
		"duration", t.GetDuration(),
		"merged", mergedCount,
		"skipped", skippedCount,
		"errors", errorCount)

	return nil
}
