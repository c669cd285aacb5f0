package store

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"wikibrief/internal/core"
)

func testRecord(title string) core.ArticleRecord {
	return core.ArticleRecord{
		Title:      title,
		SummaryRaw: "Full text of " + title + ".",
		Summaries: core.SummaryPair{
			Advanced: "Advanced summary of " + title + ".",
			Basic:    "Basic summary of " + title + ".",
		},
		ImageURL:      "https://example.com/thumb.jpg",
		RelatedTitles: []string{"Alpha", "Beta"},
		QueryHistory:  []string{"first query"},
		SummaryID:     "summary-" + title,
		ModelUsed:     "test-model",
		DateCreated:   time.Now().UTC(),
	}
}

func TestNewStore(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	if store.db == nil {
		t.Error("Store database should not be nil")
	}

	dbPath := filepath.Join(tmpDir, "wikibrief.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file should be created")
	}
}

func TestNewStore_InvalidDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	invalidPath := filepath.Join(tmpDir, "file.txt")
	_ = os.WriteFile(invalidPath, []byte("test"), 0644)

	_, err := NewStore(invalidPath)
	if err == nil {
		t.Error("Expected error when creating store in invalid directory")
	}
}

func TestPutNew_Get(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	record := testRecord("Paris")
	if err := store.PutNew(record); err != nil {
		t.Fatalf("PutNew failed: %v", err)
	}

	got, err := store.Get("Paris")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected record, got cache miss")
	}
	if got.Title != record.Title {
		t.Errorf("Expected title %q, got %q", record.Title, got.Title)
	}
	if got.Summaries.Advanced != record.Summaries.Advanced {
		t.Errorf("Expected advanced summary %q, got %q", record.Summaries.Advanced, got.Summaries.Advanced)
	}
	if got.Summaries.Basic != record.Summaries.Basic {
		t.Errorf("Expected basic summary %q, got %q", record.Summaries.Basic, got.Summaries.Basic)
	}
	if len(got.RelatedTitles) != 2 || got.RelatedTitles[0] != "Alpha" || got.RelatedTitles[1] != "Beta" {
		t.Errorf("RelatedTitles not preserved in order: %v", got.RelatedTitles)
	}
	if len(got.QueryHistory) != 1 || got.QueryHistory[0] != "first query" {
		t.Errorf("QueryHistory not preserved: %v", got.QueryHistory)
	}
}

func TestGet_CacheMiss(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	got, err := store.Get("Never Seen")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("Expected cache miss, got record %+v", got)
	}
}

func TestPutNew_Duplicate(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.PutNew(testRecord("Paris")); err != nil {
		t.Fatalf("First PutNew failed: %v", err)
	}

	err = store.PutNew(testRecord("Paris"))
	if err != core.ErrDuplicateRecord {
		t.Errorf("Expected ErrDuplicateRecord, got %v", err)
	}

	// The original record must be intact.
	got, err := store.Get("Paris")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil || got.QueryHistory[0] != "first query" {
		t.Errorf("Original record corrupted after duplicate insert: %+v", got)
	}
}

func TestAppendQuery(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.PutNew(testRecord("Paris")); err != nil {
		t.Fatalf("PutNew failed: %v", err)
	}

	if err := store.AppendQuery("Paris", "capital of france"); err != nil {
		t.Fatalf("AppendQuery failed: %v", err)
	}
	// Repeat append must be a no-op.
	if err := store.AppendQuery("Paris", "capital of france"); err != nil {
		t.Fatalf("Second AppendQuery failed: %v", err)
	}

	got, err := store.Get("Paris")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	want := []string{"first query", "capital of france"}
	if len(got.QueryHistory) != len(want) {
		t.Fatalf("Expected history %v, got %v", want, got.QueryHistory)
	}
	for i := range want {
		if got.QueryHistory[i] != want[i] {
			t.Errorf("Expected history[%d]=%q, got %q", i, want[i], got.QueryHistory[i])
		}
	}
}

func TestAppendQuery_MissingRecord(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.AppendQuery("Never Seen", "anything"); err == nil {
		t.Error("Expected error appending to a missing record")
	}
}

func TestPutNew_ConcurrentRace(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = store.PutNew(testRecord("Contested"))
		}(i)
	}
	wg.Wait()

	var wins, duplicates int
	for _, err := range errs {
		switch err {
		case nil:
			wins++
		case core.ErrDuplicateRecord:
			duplicates++
		default:
			t.Errorf("Unexpected error from concurrent PutNew: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("Expected exactly one winning insert, got %d", wins)
	}
	if wins+duplicates != writers {
		t.Errorf("Expected %d total outcomes, got %d wins + %d duplicates", writers, wins, duplicates)
	}

	got, err := store.Get("Contested")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil || got.Summaries.Advanced == "" || got.Summaries.Basic == "" || got.ImageURL == "" {
		t.Errorf("Winning record is torn or incomplete: %+v", got)
	}
}

func TestStore_SurvivesReopen(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if err := store.PutNew(testRecord("Durable")); err != nil {
		t.Fatalf("PutNew failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	got, err := reopened.Get("Durable")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if got == nil || got.Title != "Durable" {
		t.Errorf("Record did not survive reopen: %+v", got)
	}
}

func TestStats_Clear(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.PutNew(testRecord("One")); err != nil {
		t.Fatalf("PutNew failed: %v", err)
	}
	if err := store.PutNew(testRecord("Two")); err != nil {
		t.Fatalf("PutNew failed: %v", err)
	}
	if err := store.AppendQuery("One", "another phrasing"); err != nil {
		t.Fatalf("AppendQuery failed: %v", err)
	}

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.ArticleCount != 2 {
		t.Errorf("Expected 2 articles, got %d", stats.ArticleCount)
	}
	if stats.QueryCount != 3 {
		t.Errorf("Expected 3 recorded queries, got %d", stats.QueryCount)
	}

	n, err := store.Clear()
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 cleared records, got %d", n)
	}

	got, err := store.Get("One")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Error("Expected cache miss after Clear")
	}
}
