package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/lysyi3m/wine-comb/app/catalog"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "wine.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func testRecord(link string, price float64) catalog.ProductRecord {
	score := 94
	return catalog.ProductRecord{
		Link:         link,
		FullWineName: "2015 Chateau Test",
		ActualPrice:  catalog.PriceOf(price),
		QOH:          15,
		Varietals:    []string{"Cabernet Sauvignon"},
		Country:      "France",
		BottleSize:   750,
		Vintage:      2015,
		Reviews: []catalog.Review{
			{ReviewerName: "Wine Spectator", Score: &score, ScoreStr: "94 poi", ReviewText: "Dense."},
		},
	}
}

func TestNewConnection_EmptyPath(t *testing.T) {
	if _, err := NewConnection(""); err == nil {
		t.Error("Expected error for empty database path")
	}
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := newTestDB(t)

	version, dirty, err := RunMigrations(db)
	if err != nil {
		t.Fatalf("Expected second migration run to succeed, got %v", err)
	}
	if version != 3 {
		t.Errorf("Expected schema version 3, got %d", version)
	}
	if dirty {
		t.Error("Expected clean schema")
	}
}

func TestProductRepository_SaveLookupListClear(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db, "klwines")

	first := testRecord("http://www.klwines.com/detail.asp?sku=2", 24.99)
	second := testRecord("http://www.klwines.com/detail.asp?sku=1", 10)
	second.ActualPrice = catalog.Price{}
	second.RedWhiteType = catalog.ColorHint{"red"}

	for _, record := range []catalog.ProductRecord{first, second} {
		if err := repo.Save(record); err != nil {
			t.Fatalf("Failed to save record: %v", err)
		}
	}

	found, err := repo.Lookup(second.Link)
	if err != nil {
		t.Fatal(err)
	}
	if found == nil {
		t.Fatal("Expected record to be found")
	}
	if found.ActualPrice.Valid {
		t.Errorf("Expected price sentinel to survive a round trip, got %v", found.ActualPrice.Value)
	}
	if len(found.RedWhiteType) != 1 || found.RedWhiteType[0] != "red" {
		t.Errorf("Expected color hint [red], got %v", found.RedWhiteType)
	}

	missing, err := repo.Lookup("http://www.klwines.com/detail.asp?sku=404")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Errorf("Expected nil for unknown link, got %+v", missing)
	}

	records, err := repo.ListAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	if records[0].Link != first.Link || records[1].Link != second.Link {
		t.Errorf("Expected records in save order, got %s, %s", records[0].Link, records[1].Link)
	}
	if records[0].Reviews[0].Score == nil || *records[0].Reviews[0].Score != 94 {
		t.Errorf("Expected review score 94, got %v", records[0].Reviews[0].Score)
	}

	if err := repo.Clear(); err != nil {
		t.Fatal(err)
	}
	if count, err := repo.Count(); err != nil || count != 0 {
		t.Errorf("Expected empty store after clear, got %d (%v)", count, err)
	}
}

func TestProductRepository_SaveReplacesExisting(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db, "klwines")

	link := "http://www.klwines.com/detail.asp?sku=7"
	if err := repo.Save(testRecord(link, 10)); err != nil {
		t.Fatal(err)
	}
	if err := repo.Save(testRecord(link, 12.5)); err != nil {
		t.Fatal(err)
	}

	count, err := repo.Count()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("Expected 1 record per link, got %d", count)
	}

	found, err := repo.Lookup(link)
	if err != nil {
		t.Fatal(err)
	}
	if found.ActualPrice.Value != 12.5 {
		t.Errorf("Expected latest price 12.5, got %v", found.ActualPrice.Value)
	}
}

func TestProductRepository_SourcesAreIsolated(t *testing.T) {
	db := newTestDB(t)
	klwines := NewProductRepository(db, "klwines")
	other := NewProductRepository(db, "other")

	if err := klwines.Save(testRecord("http://www.klwines.com/detail.asp?sku=1", 10)); err != nil {
		t.Fatal(err)
	}
	if err := other.Clear(); err != nil {
		t.Fatal(err)
	}

	if count, _ := klwines.Count(); count != 1 {
		t.Errorf("Expected clear of another source to keep klwines records, got %d", count)
	}
}

func TestProductRepository_SaveRequiresLink(t *testing.T) {
	repo := NewProductRepository(newTestDB(t), "klwines")

	if err := repo.Save(catalog.ProductRecord{}); err == nil {
		t.Error("Expected error for record without link")
	}
}

func TestCatalogRepository_UpsertLookup(t *testing.T) {
	db := newTestDB(t)
	repo := NewCatalogRepository(db)

	link := "http://www.klwines.com/detail.asp?sku=100234"
	if err := repo.Upsert(testRecord(link, 24.99)); err != nil {
		t.Fatal(err)
	}
	if err := repo.Upsert(testRecord(link, 21.99)); err != nil {
		t.Fatal(err)
	}

	found, err := repo.Lookup(link)
	if err != nil {
		t.Fatal(err)
	}
	if found == nil || found.ActualPrice.Value != 21.99 {
		t.Errorf("Expected updated catalog entry with price 21.99, got %+v", found)
	}

	count, err := repo.Count()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("Expected 1 catalog entry, got %d", count)
	}

	missing, err := repo.Lookup("http://www.klwines.com/detail.asp?sku=0")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Errorf("Expected nil for unknown link")
	}
}

func TestRunRepository_Lifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := NewRunRepository(db)

	latest, err := repo.GetLatestRun("klwines", RunModeLive)
	if err != nil {
		t.Fatal(err)
	}
	if latest != nil {
		t.Errorf("Expected no runs yet, got %+v", latest)
	}

	startedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	id, err := repo.CreateRun("klwines", RunModeLive, startedAt)
	if err != nil {
		t.Fatal(err)
	}

	latest, err = repo.GetLatestRun("klwines", RunModeLive)
	if err != nil {
		t.Fatal(err)
	}
	if latest == nil || latest.ID != id {
		t.Fatalf("Expected run %d, got %+v", id, latest)
	}
	if latest.FinishedAt != nil {
		t.Errorf("Expected run in progress")
	}

	err = repo.FinishRun(Run{ID: id, Total: 10, Fetched: 6, Reused: 3, Failed: 1, Discarded: 2, Errored: 1, Saved: 7})
	if err != nil {
		t.Fatal(err)
	}

	latest, err = repo.GetLatestRun("klwines", RunModeLive)
	if err != nil {
		t.Fatal(err)
	}
	if latest.FinishedAt == nil {
		t.Errorf("Expected finished run")
	}
	if latest.Mode != RunModeLive {
		t.Errorf("Expected mode 'live', got '%s'", latest.Mode)
	}
	if latest.Saved != 7 || latest.Reused != 3 || latest.Failed != 1 {
		t.Errorf("Expected stored counters, got %+v", latest)
	}

	if _, err := repo.CreateRun("klwines", RunModeReplay, startedAt.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	latest, err = repo.GetLatestRun("klwines", RunModeLive)
	if err != nil {
		t.Fatal(err)
	}
	if latest.ID != id {
		t.Errorf("Expected replay runs to be ignored for the latest live run, got %d", latest.ID)
	}

	if count, err := repo.GetRunCount("klwines"); err != nil || count != 2 {
		t.Errorf("Expected 2 runs, got %d (%v)", count, err)
	}

	if err := repo.FinishRun(Run{ID: id + 100}); err == nil {
		t.Error("Expected error finishing an unknown run")
	}
}
