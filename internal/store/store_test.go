package store

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/verte-zerg/drill/internal/model"
)

func openBackends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()
	jsonStore, err := Open(BackendJSON, filepath.Join(dir, "user.json"))
	if err != nil {
		t.Fatalf("open json store: %v", err)
	}
	sqliteStore, err := Open(BackendSQLite, filepath.Join(dir, "db", "drill.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() {
		_ = jsonStore.Close()
		_ = sqliteStore.Close()
	})
	return map[string]Store{BackendJSON: jsonStore, BackendSQLite: sqliteStore}
}

func TestLoadDefaults(t *testing.T) {
	for name, st := range openBackends(t) {
		progress, err := st.Load(context.Background())
		if err != nil {
			t.Fatalf("%s: load: %v", name, err)
		}
		if progress.Iteration != 0 || len(progress.Known) != 0 || len(progress.AnsweredInIteration) != 0 {
			t.Fatalf("%s: expected defaults, got %+v", name, progress)
		}
		if progress.Known == nil || progress.AnsweredInIteration == nil {
			t.Fatalf("%s: expected non-nil defaults", name)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	want := model.Progress{
		Known:               map[string]int{"spanish/Q1": 2, "spanish/Q1_R": 1},
		Iteration:           5,
		AnsweredInIteration: []string{"spanish/Q1_R", "math/Q3"},
	}
	for name, st := range openBackends(t) {
		ctx := context.Background()
		if err := st.Save(ctx, want); err != nil {
			t.Fatalf("%s: save: %v", name, err)
		}
		got, err := st.Load(ctx)
		if err != nil {
			t.Fatalf("%s: load: %v", name, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("%s: round trip mismatch: got %+v want %+v", name, got, want)
		}

		// A second save replaces rather than merges.
		next := model.Progress{Known: map[string]int{"math/Q3": 1}, Iteration: 6, AnsweredInIteration: []string{}}
		if err := st.Save(ctx, next); err != nil {
			t.Fatalf("%s: save: %v", name, err)
		}
		got, err = st.Load(ctx)
		if err != nil {
			t.Fatalf("%s: load: %v", name, err)
		}
		if !reflect.DeepEqual(got, next) {
			t.Fatalf("%s: replace mismatch: got %+v want %+v", name, got, next)
		}
	}
}

func TestJSONLoadCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.json")
	st, err := OpenJSON(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := st.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected default progress file: %v", err)
	}
	if string(data) != `{"known":{},"iteration":0,"answeredInIteration":[]}` {
		t.Fatalf("unexpected default file: %s", data)
	}
}

func TestJSONLoadFillsAbsentFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.json")
	if err := os.WriteFile(path, []byte(`{"known":{"a/Q0":3}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	st, err := OpenJSON(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	progress, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if progress.Known["a/Q0"] != 3 {
		t.Fatalf("expected rank 3, got %d", progress.Known["a/Q0"])
	}
	if progress.Iteration != 0 || progress.AnsweredInIteration == nil {
		t.Fatalf("expected defaults for absent fields, got %+v", progress)
	}
}

func TestJSONLoadRejectsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.json")
	if err := os.WriteFile(path, []byte(`{"known":`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	st, err := OpenJSON(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := st.Load(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := Open("yaml", "x"); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
