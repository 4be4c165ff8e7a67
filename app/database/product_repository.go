package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lysyi3m/wine-comb/app/catalog"
)

var _ ProductRepository = (*productRepository)(nil)

type productRepository struct {
	db     *DB
	source string
}

// NewProductRepository returns the result store for one retailer source.
func NewProductRepository(db *DB, source string) ProductRepository {
	return &productRepository{db: db, source: source}
}

func (r *productRepository) Lookup(link string) (*catalog.ProductRecord, error) {
	var document string
	err := r.db.QueryRow(`
		SELECT document FROM products
		WHERE source = ? AND link = ?
	`, r.source, link).Scan(&document)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lookup product: %w", err)
	}

	return decodeRecord(document)
}

func (r *productRepository) Save(record catalog.ProductRecord) error {
	if record.Link == "" {
		return fmt.Errorf("product link is required")
	}

	document, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode product: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO products (source, link, document)
		VALUES (?, ?, ?)
		ON CONFLICT (source, link) DO UPDATE SET
			document = excluded.document,
			updated_at = CURRENT_TIMESTAMP
	`, r.source, record.Link, string(document))

	if err != nil {
		return fmt.Errorf("failed to save product: %w", err)
	}

	return nil
}

// ListAll returns records in the order they were first saved.
func (r *productRepository) ListAll() ([]catalog.ProductRecord, error) {
	rows, err := r.db.Query(`
		SELECT document FROM products
		WHERE source = ?
		ORDER BY rowid
	`, r.source)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	records := []catalog.ProductRecord{}
	for rows.Next() {
		var document string
		if err := rows.Scan(&document); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		record, err := decodeRecord(document)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	return records, nil
}

func (r *productRepository) Clear() error {
	if _, err := r.db.Exec(`DELETE FROM products WHERE source = ?`, r.source); err != nil {
		return fmt.Errorf("failed to clear products: %w", err)
	}
	return nil
}

func (r *productRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM products WHERE source = ?`, r.source).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func decodeRecord(document string) (*catalog.ProductRecord, error) {
	var record catalog.ProductRecord
	if err := json.Unmarshal([]byte(document), &record); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}
	return &record, nil
}
