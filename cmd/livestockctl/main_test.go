package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"livestock-records/internal/router"
)

func ctl(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestCLI_RoundTrip(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	backup := filepath.Join(t.TempDir(), "backup.json")
	seed := `{"livestock_animals":[{"id":"a1","name":"Bessie","type":"Cattle","status":"healthy","createdAt":"2025-01-01T00:00:00Z","updatedAt":"2025-01-01T00:00:00Z"}],` +
		`"livestock_treatments":[{"id":"t1","animalId":"a1","type":"vaccine","name":"FMD","date":"2025-01-01T10:00:00Z","createdAt":"2025-01-01T10:00:00Z"}],` +
		`"livestock_feeding":[],"livestock_breeding":[]}`
	if err := os.WriteFile(backup, []byte(seed), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	if code, out, errOut := ctl(t, "-addr", ts.URL, "import", backup); code != 0 || !strings.Contains(out, "imported") {
		t.Fatalf("import: code=%d out=%s err=%s", code, out, errOut)
	}

	code, out, _ := ctl(t, "-addr", ts.URL, "animals")
	if code != 0 || !strings.Contains(out, "Bessie") || !strings.Contains(out, "healthy") {
		t.Fatalf("animals: code=%d out=%s", code, out)
	}

	code, out, _ = ctl(t, "-addr", ts.URL, "treatments", "-type", "vaccine", "-month", "2025-01")
	if code != 0 || !strings.Contains(out, "FMD") || !strings.Contains(out, "Bessie") {
		t.Fatalf("treatments: code=%d out=%s", code, out)
	}

	exported := filepath.Join(t.TempDir(), "out.json")
	if code, _, errOut := ctl(t, "-addr", ts.URL, "export", exported); code != 0 {
		t.Fatalf("export: %s", errOut)
	}
	b, err := os.ReadFile(exported)
	if err != nil || !strings.Contains(string(b), `"livestock_treatments"`) {
		t.Fatalf("export file: %v %s", err, b)
	}

	code, out, _ = ctl(t, "-addr", ts.URL, "delete", "animal", "a1")
	if code != 0 || !strings.Contains(out, "1 treatments") {
		t.Fatalf("delete: code=%d out=%s", code, out)
	}

	code, out, _ = ctl(t, "-addr", ts.URL, "dashboard")
	if code != 0 || !strings.Contains(out, "animals") {
		t.Fatalf("dashboard: code=%d out=%s", code, out)
	}
}

func TestCLI_Errors(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	if code, _, _ := ctl(t, "-addr", ts.URL); code != 2 {
		t.Fatalf("no command: code=%d", code)
	}
	if code, _, _ := ctl(t, "-addr", ts.URL, "herd"); code != 2 {
		t.Fatalf("unknown command: code=%d", code)
	}
	if code, _, _ := ctl(t, "-addr", ts.URL, "delete", "cow", "x"); code != 2 {
		t.Fatalf("bad delete kind: code=%d", code)
	}
	if code, _, errOut := ctl(t, "-addr", ts.URL, "import", filepath.Join(t.TempDir(), "nope.json")); code != 1 || errOut == "" {
		t.Fatalf("missing file: code=%d", code)
	}
}
