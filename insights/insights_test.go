package insights

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"waitline/models"
)

// afternoon, outside restaurant peak hours
var quietHour = time.Date(2026, 3, 10, 16, 0, 0, 0, time.Local)

func TestHeuristicsStableFallback(t *testing.T) {
	place := models.Place{Category: "Clinic", CrowdLevel: models.LevelMedium}

	got := heuristics(place, nil, quietHour)
	if len(got) != 1 {
		t.Fatalf("expected exactly one message, got %v", got)
	}
	if got[0] != "Waiting times are currently stable." {
		t.Fatalf("unexpected message: %q", got[0])
	}
}

func TestHeuristicsCrowdLevels(t *testing.T) {
	high := heuristics(models.Place{Category: "Clinic", CrowdLevel: models.LevelHigh}, nil, quietHour)
	if len(high) != 1 || !strings.Contains(high[0], "busier than usual") {
		t.Fatalf("high crowd: got %v", high)
	}

	low := heuristics(models.Place{Category: "Clinic", CrowdLevel: models.LevelLow}, nil, quietHour)
	if len(low) != 1 || !strings.Contains(low[0], "Great time to visit") {
		t.Fatalf("low crowd: got %v", low)
	}
}

func TestHeuristicsRestaurantHours(t *testing.T) {
	place := models.Place{Category: "Restaurant", CrowdLevel: models.LevelMedium}

	lunch := time.Date(2026, 3, 10, 13, 0, 0, 0, time.Local)
	got := heuristics(place, nil, lunch)
	if len(got) != 1 || !strings.Contains(got[0], "Peak dining hours") {
		t.Fatalf("lunch peak: got %v", got)
	}

	dinner := time.Date(2026, 3, 10, 20, 30, 0, 0, time.Local)
	got = heuristics(place, nil, dinner)
	if len(got) != 1 || !strings.Contains(got[0], "Peak dining hours") {
		t.Fatalf("dinner peak: got %v", got)
	}

	got = heuristics(place, nil, quietHour)
	if len(got) != 1 || !strings.Contains(got[0], "Off-peak hours") {
		t.Fatalf("off-peak: got %v", got)
	}
}

func TestHeuristicsLiveUpdates(t *testing.T) {
	place := models.Place{Category: "Clinic", CrowdLevel: models.LevelMedium}
	reports := []models.Report{
		{Timestamp: quietHour.Add(-5 * time.Minute)},
		{Timestamp: quietHour.Add(-10 * time.Minute)},
		{Timestamp: quietHour.Add(-20 * time.Minute)},
		{Timestamp: quietHour.Add(-2 * time.Hour)}, // outside the 30 min window
	}

	got := heuristics(place, reports, quietHour)
	if len(got) != 1 {
		t.Fatalf("expected one message, got %v", got)
	}
	if got[0] != "Live updates: 3 people reported in the last 30 mins." {
		t.Fatalf("unexpected message: %q", got[0])
	}
}

func TestHeuristicsTruncatesToTwo(t *testing.T) {
	// high crowd + restaurant peak + live updates would be three rules
	place := models.Place{Category: "Restaurant", CrowdLevel: models.LevelHigh}
	lunch := time.Date(2026, 3, 10, 12, 30, 0, 0, time.Local)
	reports := []models.Report{
		{Timestamp: lunch.Add(-1 * time.Minute)},
		{Timestamp: lunch.Add(-2 * time.Minute)},
		{Timestamp: lunch.Add(-3 * time.Minute)},
	}

	got := heuristics(place, reports, lunch)
	if len(got) != 2 {
		t.Fatalf("expected two messages, got %v", got)
	}
	// rule order is fixed: crowd level first, then dining hours
	if !strings.Contains(got[0], "busier than usual") {
		t.Errorf("first message: %q", got[0])
	}
	if !strings.Contains(got[1], "Peak dining hours") {
		t.Errorf("second message: %q", got[1])
	}
}

func TestRemoteParsesFencedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"parts":[{"text":"`+
			"```json\\n[\\\"Short wait right now.\\\", \\\"Good time to stop by.\\\"]\\n```"+
			`"}]}}]}`)
	}))
	defer srv.Close()

	g := NewRemote("test-key")
	g.baseURL = srv.URL

	got := g.Generate(context.Background(), models.Place{Category: "Clinic"}, nil)
	if len(got) != 2 || got[0] != "Short wait right now." || got[1] != "Good time to stop by." {
		t.Fatalf("unexpected insights: %v", got)
	}
}

func TestRemoteFallsBackOnFailure(t *testing.T) {
	// no server listening on this address
	g := NewRemote("test-key")
	g.baseURL = "http://127.0.0.1:1"

	place := models.Place{Category: "Clinic", CrowdLevel: models.LevelLow}
	got := g.Generate(context.Background(), place, nil)
	if len(got) != 1 || !strings.Contains(got[0], "Great time to visit") {
		t.Fatalf("expected heuristic fallback, got %v", got)
	}
}
