package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"livestock-records/internal/domain/records"

	"github.com/prometheus/client_golang/prometheus"
)

type fixedCounter map[records.Collection]int

func (f fixedCounter) Count(c records.Collection) int { return f[c] }

func scrape(t *testing.T, reg *prometheus.Registry) string {
	t.Helper()
	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestRecorder_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.Observe(context.Background(), "create_animal", true, 2*time.Millisecond)
	r.Observe(context.Background(), "create_animal", false, time.Millisecond)

	out := scrape(t, reg)
	for _, want := range []string{
		`livestock_store_operations_total{op="create_animal",result="ok"} 1`,
		`livestock_store_operations_total{op="create_animal",result="error"} 1`,
		`livestock_store_operation_duration_seconds_count{op="create_animal"} 2`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRegisterCollectionGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	RegisterCollectionGauges(reg, fixedCounter{
		records.CollectionAnimals:    3,
		records.CollectionTreatments: 1,
	})

	out := scrape(t, reg)
	if !strings.Contains(out, `livestock_records{collection="animals"} 3`) {
		t.Fatalf("animals gauge missing:\n%s", out)
	}
	if !strings.Contains(out, `livestock_records{collection="breeding"} 0`) {
		t.Fatalf("breeding gauge missing:\n%s", out)
	}
}
