package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseLevelAndFormat(t *testing.T) {
	levels := map[string]Level{"debug": Debug, " WARN ": Warn, "warning": Warn, "error": Error, "": Info, "verbose": Info}
	for in, want := range levels {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
	if ParseFormat("JSON") != FormatJSON || ParseFormat("yaml") != FormatText {
		t.Fatalf("ParseFormat mismatch")
	}
}

func TestLogger_TextFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: Warn, Out: &buf, App: "herd"})

	l.Info("skipped", nil)
	l.Warn("kept", Fields{"animal_id": "a1"})

	out := strings.TrimSpace(buf.String())
	if strings.Contains(out, "skipped") {
		t.Fatalf("info should be filtered: %s", out)
	}
	if !strings.HasPrefix(out, "animal_id=a1 app=herd level=warn msg=kept ts=") {
		t.Fatalf("unexpected text line: %s", out)
	}
}

func TestLogger_JSONWithFieldsAndErrors(t *testing.T) {
	var buf bytes.Buffer
	base := New(Options{Format: FormatJSON, Out: &buf})
	l := base.With(Fields{"component": "records"})

	l.Error("persist failed", Fields{"error": errors.New("disk full"), "": "ignored"})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode: %v (%s)", err, buf.String())
	}
	if entry["component"] != "records" || entry["error"] != "disk full" || entry["level"] != "error" {
		t.Fatalf("entry = %v", entry)
	}
	if _, ok := entry[""]; ok {
		t.Fatalf("empty key must be dropped")
	}

	// With no contamina al logger base
	buf.Reset()
	base.Info("plain", nil)
	if strings.Contains(buf.String(), "component") {
		t.Fatalf("base logger got child fields: %s", buf.String())
	}
}

func TestNop(t *testing.T) {
	Nop().Error("nothing", Fields{"k": "v"})
}
