package insights

import (
	"context"
	"fmt"
	"os"
	"time"

	"waitline/models"
)

// Generator produces up to two short human-readable hints for a place's
// detail view. Implementations never fail the caller: any dependency
// error ends in the deterministic heuristic.
type Generator interface {
	Generate(ctx context.Context, place models.Place, recentReports []models.Report) []string
}

// New picks the remote generator when an API key is configured and the
// plain heuristic otherwise.
func New() Generator {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return NewRemote(key)
	}
	return Heuristic{}
}

// Heuristic is the deterministic fallback generator.
type Heuristic struct{}

func (Heuristic) Generate(_ context.Context, place models.Place, recentReports []models.Report) []string {
	return heuristics(place, recentReports, time.Now())
}

// Rule order matters: callers see the first two messages only.
func heuristics(place models.Place, recentReports []models.Report, now time.Time) []string {
	var insights []string
	currentHour := now.Hour()

	if place.CrowdLevel == models.LevelHigh {
		insights = append(insights, "It's currently busier than usual.")
	} else if place.CrowdLevel == models.LevelLow {
		insights = append(insights, "Great time to visit! Validated by low crowd reports.")
	}

	if place.Category == "Restaurant" {
		if (currentHour >= 12 && currentHour <= 14) || (currentHour >= 19 && currentHour <= 21) {
			insights = append(insights, "Peak dining hours. Expect wait times.")
		} else {
			insights = append(insights, "Off-peak hours. Likely immediate seating.")
		}
	}

	veryRecent := 0
	for _, r := range recentReports {
		if now.Sub(r.Timestamp) < 30*time.Minute {
			veryRecent++
		}
	}
	if veryRecent > 2 {
		insights = append(insights, fmt.Sprintf("Live updates: %d people reported in the last 30 mins.", veryRecent))
	}

	if len(insights) == 0 {
		insights = append(insights, "Waiting times are currently stable.")
	}

	if len(insights) > 2 {
		insights = insights[:2]
	}
	return insights
}
