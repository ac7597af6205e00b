package importer

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestParseCSVWithHeader verifies header detection and full-row parsing,
// including the optional rpe and muscle_group columns.
func TestParseCSVWithHeader(t *testing.T) {
	input := `date,exercise,set,weight,reps,rpe,muscle_group
2026-08-01,Barbell Bench Press,1,100,5,8.5,chest
2026-08-01,Barbell Bench Press,2,100,4,,chest
`
	rows, err := parseCSV(strings.NewReader(input), "test.csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].ExerciseName != "Barbell Bench Press" {
		t.Errorf("exercise = %q", rows[0].ExerciseName)
	}
	if rows[0].RPE == nil || *rows[0].RPE != 8.5 {
		t.Errorf("rpe = %v, want 8.5", rows[0].RPE)
	}
	if rows[1].RPE != nil {
		t.Errorf("row 2 rpe = %v, want nil", rows[1].RPE)
	}
	if rows[0].MuscleGroup != "chest" {
		t.Errorf("muscle_group = %q, want chest", rows[0].MuscleGroup)
	}
}

// TestParseCSVWithoutHeader verifies files whose first row is data are
// accepted as-is.
func TestParseCSVWithoutHeader(t *testing.T) {
	input := "2026-08-01,Squat,1,140,5\n"
	rows, err := parseCSV(strings.NewReader(input), "test.csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].Weight != 140 || rows[0].Reps != 5 {
		t.Errorf("row = %+v", rows[0])
	}
}

// TestParseCSVHeaderCase verifies header detection matches the column name,
// not its casing.
func TestParseCSVHeaderCase(t *testing.T) {
	input := "Date,Exercise,Set,Weight,Reps\n2026-08-01,Squat,1,140,5\n"
	rows, err := parseCSV(strings.NewReader(input), "test.csv")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
}

// TestParseCSVRejectsBadRows verifies a single malformed row fails the
// whole file.
func TestParseCSVRejectsBadRows(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"bad date", "08/01/2026,Squat,1,140,5\n"},
		{"negative weight", "2026-08-01,Squat,1,-5,5\n"},
		{"zero reps", "2026-08-01,Squat,1,140,0\n"},
		{"reps too high", "2026-08-01,Squat,1,140,101\n"},
		{"rpe out of range", "2026-08-01,Squat,1,140,5,11\n"},
		{"empty exercise", "2026-08-01,,1,140,5\n"},
		{"too few columns", "2026-08-01,Squat,1\n"},
	}
	for _, c := range cases {
		if _, err := parseCSV(strings.NewReader(c.input), "test.csv"); err == nil {
			t.Errorf("%s: expected parse error", c.name)
		}
	}
}

// TestStateDB verifies the imported-file ledger round-trips, keeps the row
// count, and treats a changed hash as a new file.
func TestStateDB(t *testing.T) {
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	done, _, err := state.IsImported("a.csv", 100, "abc")
	if err != nil {
		t.Fatal(err)
	}
	if done {
		t.Error("fresh file reported as imported")
	}

	if err := state.MarkImported("a.csv", 100, "abc", 42); err != nil {
		t.Fatal(err)
	}
	if err := state.MarkImported("b.csv", 50, "def", 8); err != nil {
		t.Fatal(err)
	}

	done, rows, err := state.IsImported("a.csv", 100, "abc")
	if err != nil {
		t.Fatal(err)
	}
	if !done {
		t.Error("marked file not reported as imported")
	}
	if rows != 42 {
		t.Errorf("rows = %d, want 42", rows)
	}

	total, err := state.TotalRows()
	if err != nil {
		t.Fatal(err)
	}
	if total != 50 {
		t.Errorf("total rows = %d, want 50", total)
	}

	done, _, err = state.IsImported("a.csv", 100, "different-hash")
	if err != nil {
		t.Fatal(err)
	}
	if done {
		t.Error("changed file reported as imported")
	}
}

// TestImporterRun verifies the end-to-end flow: walk a directory, post
// batches with the API key, record state, and skip the file on a second run.
func TestImporterRun(t *testing.T) {
	var batches int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/import/sets" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("X-API-Key"); got != "test-key" {
			t.Errorf("api key = %q", got)
		}
		var batch wireBatch
		if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
			t.Fatal(err)
		}
		batches++
		json.NewEncoder(w).Encode(BatchResult{
			Received: int64(len(batch.Sets)),
			Inserted: int64(len(batch.Sets)),
		})
	}))
	defer ts.Close()

	dir := t.TempDir()
	csv := "2026-08-01,Squat,1,140,5\n2026-08-01,Squat,2,140,5\n2026-08-02,Deadlift,1,180,3\n"
	if err := os.WriteFile(filepath.Join(dir, "history.csv"), []byte(csv), 0o644); err != nil {
		t.Fatal(err)
	}

	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	client := NewClient(ts.URL, "test-key", 1)
	imp := New(client, state, slog.Default(), false, 2)

	stats, err := imp.Run(dir)
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesImported != 1 {
		t.Errorf("files imported = %d, want 1", stats.FilesImported)
	}
	if stats.SetsInserted != 3 {
		t.Errorf("sets inserted = %d, want 3", stats.SetsInserted)
	}
	if batches != 2 {
		t.Errorf("batches = %d, want 2 (batch size 2 over 3 rows)", batches)
	}

	// Second run: same file, same hash, nothing sent.
	imp2 := New(client, state, slog.Default(), false, 2)
	stats2, err := imp2.Run(dir)
	if err != nil {
		t.Fatal(err)
	}
	if stats2.FilesSkipped != 1 {
		t.Errorf("files skipped = %d, want 1", stats2.FilesSkipped)
	}
	if batches != 2 {
		t.Errorf("batches after rerun = %d, want still 2", batches)
	}
}

// TestImporterDryRun verifies dry-run parses but neither sends nor records
// state.
func TestImporterDryRun(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("dry run must not contact the server")
	}))
	defer ts.Close()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "history.csv"), []byte("2026-08-01,Squat,1,140,5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	imp := New(NewClient(ts.URL, "test-key", 1), state, slog.Default(), true, 500)
	stats, err := imp.Run(dir)
	if err != nil {
		t.Fatal(err)
	}
	if stats.RowsParsed != 1 {
		t.Errorf("rows parsed = %d, want 1", stats.RowsParsed)
	}

	total, err := state.TotalRows()
	if err != nil {
		t.Fatal(err)
	}
	if total != 0 {
		t.Error("dry run recorded state")
	}
}
