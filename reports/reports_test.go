package reports

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"waitline/live"
)

func TestBucketValues(t *testing.T) {
	want := map[string]int{
		"0-10 min":  5,
		"10-30 min": 20,
		"30-60 min": 45,
		"60+ min":   75,
	}
	if len(bucketValues) != len(want) {
		t.Fatalf("bucketValues has %d entries, want %d", len(bucketValues), len(want))
	}
	for label, value := range want {
		got, ok := bucketValues[label]
		if !ok {
			t.Errorf("missing bucket label %q", label)
			continue
		}
		if got != value {
			t.Errorf("bucketValues[%q] = %d, want %d", label, got, value)
		}
	}
}

func TestSubmitReportRejectsBadInput(t *testing.T) {
	hub := live.NewHub()
	go hub.Run()
	defer hub.Stop()
	handler := SubmitReport(hub)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", "{not json", http.StatusBadRequest},
		{"unknown bucket", `{"placeId":"p1","waitTimeRange":"2-5 min"}`, http.StatusBadRequest},
		{"empty bucket", `{"placeId":"p1"}`, http.StatusBadRequest},
	}

	for _, c := range cases {
		r := httptest.NewRequest(http.MethodPost, "/api/reports", strings.NewReader(c.body))
		w := httptest.NewRecorder()
		handler(w, r, nil)
		if w.Code != c.want {
			t.Errorf("%s: status = %d, want %d", c.name, w.Code, c.want)
		}
	}
}
