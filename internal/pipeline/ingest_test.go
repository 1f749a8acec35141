package pipeline

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func newTestIngestor(formats ...string) *Ingestor {
	return NewIngestor(formats, zap.NewNop())
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadJSONArray(t *testing.T) {
	ing := newTestIngestor()
	path := writeTestFile(t, t.TempDir(), "data.json",
		`[{"text":"a"},{"text":"b"},"not an object"]`)

	records, err := ing.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	// non-object entries are skipped
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0]["text"] != "a" {
		t.Errorf("records[0] = %v", records[0])
	}
}

func TestLoadJSONSingleObject(t *testing.T) {
	ing := newTestIngestor()
	path := writeTestFile(t, t.TempDir(), "data.json", `{"text":"solo"}`)

	records, err := ing.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0]["text"] != "solo" {
		t.Fatalf("records = %v", records)
	}
}

func TestLoadJSONInvalidShape(t *testing.T) {
	ing := newTestIngestor()
	path := writeTestFile(t, t.TempDir(), "data.json", `"just a string"`)

	if _, err := ing.Load(path); err == nil {
		t.Fatal("expected error for non-object JSON")
	}
}

func TestLoadJSONL(t *testing.T) {
	ing := newTestIngestor()
	path := writeTestFile(t, t.TempDir(), "data.jsonl",
		"{\"text\":\"a\"}\n\n{\"text\":\"b\"}\n")

	records, err := ing.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (blank lines skipped)", len(records))
	}
}

func TestLoadCSV(t *testing.T) {
	ing := newTestIngestor()
	path := writeTestFile(t, t.TempDir(), "data.csv",
		"name, age ,score\nalice,30,1.5\nbob,25,2\n")

	records, err := ing.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0]["name"] != "alice" {
		t.Errorf("name = %v", records[0]["name"])
	}
	// header names are trimmed and cell values type-inferred
	if records[0]["age"] != 30 {
		t.Errorf("age = %v (%T), want int 30", records[0]["age"], records[0]["age"])
	}
	if records[0]["score"] != 1.5 {
		t.Errorf("score = %v (%T), want float 1.5", records[0]["score"], records[0]["score"])
	}
}

func TestLoadTxt(t *testing.T) {
	ing := newTestIngestor()
	path := writeTestFile(t, t.TempDir(), "data.txt",
		"first line\n\n  third line  \n")

	records, err := ing.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (blank line skipped)", len(records))
	}
	if records[0]["text"] != "first line" || records[0]["line_number"] != 1 {
		t.Errorf("records[0] = %v", records[0])
	}
	if records[1]["text"] != "third line" || records[1]["line_number"] != 3 {
		t.Errorf("records[1] = %v", records[1])
	}
}

func TestLoadSQLite(t *testing.T) {
	ing := newTestIngestor("db")
	path := filepath.Join(t.TempDir(), "data.db")

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`CREATE TABLE samples (prompt TEXT, response TEXT, score INTEGER, raw BLOB)`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO samples VALUES (?, ?, ?, ?)`,
		"hello question", "hello answer", 5, []byte("blob text")); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO samples VALUES (?, ?, ?, ?)`,
		"second question", "second answer", 7, []byte("more")); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	records, err := ing.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	rec := records[0]
	if rec["prompt"] != "hello question" || rec["response"] != "hello answer" {
		t.Errorf("text columns = %v / %v", rec["prompt"], rec["response"])
	}
	if rec["score"] != int64(5) {
		t.Errorf("score = %v (%T), want int64 5", rec["score"], rec["score"])
	}
	// byte columns are stringified
	if rec["raw"] != "blob text" {
		t.Errorf("raw = %v (%T), want string", rec["raw"], rec["raw"])
	}
}

func TestLoadSQLiteNoTables(t *testing.T) {
	ing := newTestIngestor("db")
	path := filepath.Join(t.TempDir(), "empty.db")

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	// force creation of an empty database file
	if _, err := db.Exec(`PRAGMA user_version = 1`); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := ing.Load(path); err == nil {
		t.Fatal("expected error for SQLite file without tables")
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	ing := newTestIngestor()
	path := writeTestFile(t, t.TempDir(), "data.xml", "<x/>")

	if _, err := ing.Load(path); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestLoadRespectsConfiguredFormats(t *testing.T) {
	ing := newTestIngestor("csv")
	path := writeTestFile(t, t.TempDir(), "data.json", `[]`)

	if _, err := ing.Load(path); err == nil {
		t.Fatal("expected error: json not in configured formats")
	}
}

func TestLoadFromDirectorySkipsBadFiles(t *testing.T) {
	ing := newTestIngestor()
	dir := t.TempDir()

	writeTestFile(t, dir, "good.json", `[{"text":"a"},{"text":"b"}]`)
	writeTestFile(t, dir, "broken.json", `{{{`)
	writeTestFile(t, dir, "unsupported.xml", `<x/>`)
	writeTestFile(t, dir, "more.txt", "line one\n")

	records, err := ing.LoadFromDirectory(dir, "*")
	if err != nil {
		t.Fatal(err)
	}
	// broken and unsupported files are skipped, not fatal
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
}

func TestLoadFromDirectoryPattern(t *testing.T) {
	ing := newTestIngestor()
	dir := t.TempDir()

	writeTestFile(t, dir, "a.json", `[{"text":"json record"}]`)
	writeTestFile(t, dir, "b.txt", "text record\n")

	records, err := ing.LoadFromDirectory(dir, "*.txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0]["text"] != "text record" {
		t.Fatalf("records = %v", records)
	}
}
