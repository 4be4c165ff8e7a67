package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lysyi3m/wine-comb/app/catalog"
)

var _ CatalogRepository = (*catalogRepository)(nil)

type catalogRepository struct {
	db *DB
}

func NewCatalogRepository(db *DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) Lookup(link string) (*catalog.ProductRecord, error) {
	var document string
	err := r.db.QueryRow(`SELECT document FROM catalog WHERE link = ?`, link).Scan(&document)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lookup catalog entry: %w", err)
	}

	return decodeRecord(document)
}

func (r *catalogRepository) Upsert(record catalog.ProductRecord) error {
	if record.Link == "" {
		return fmt.Errorf("catalog entry link is required")
	}

	document, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode catalog entry: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO catalog (link, document)
		VALUES (?, ?)
		ON CONFLICT (link) DO UPDATE SET
			document = excluded.document,
			updated_at = CURRENT_TIMESTAMP
	`, record.Link, string(document))

	if err != nil {
		return fmt.Errorf("failed to upsert catalog entry: %w", err)
	}

	return nil
}

func (r *catalogRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM catalog`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count catalog entries: %w", err)
	}
	return count, nil
}
