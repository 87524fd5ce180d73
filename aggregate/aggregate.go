package aggregate

import (
	"context"
	"fmt"
	"math"
	"time"

	"waitline/apperr"
	"waitline/db"
	"waitline/live"
	"waitline/models"
	"waitline/mq"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Window is how far back reports count toward the live average.
const Window = 2 * time.Hour

// Average returns the mean of the reported wait times rounded half-up
// to the nearest whole minute.
func Average(reports []models.Report) int {
	if len(reports) == 0 {
		return 0
	}
	total := 0
	for _, r := range reports {
		total += r.WaitTimeReported
	}
	return int(math.Floor(float64(total)/float64(len(reports)) + 0.5))
}

// CrowdLevelFor classifies an average wait time.
func CrowdLevelFor(avg int) string {
	switch {
	case avg < 15:
		return models.LevelLow
	case avg < 45:
		return models.LevelMedium
	default:
		return models.LevelHigh
	}
}

// ConfidenceLevelFor classifies report volume inside the window.
func ConfidenceLevelFor(count int) string {
	switch {
	case count < 5:
		return models.LevelLow
	case count < 10:
		return models.LevelMedium
	default:
		return models.LevelHigh
	}
}

// State is the live state derived from one aggregation window.
type State struct {
	CurrentWaitTime int
	CrowdLevel      string
	ConfidenceLevel string
}

// Derive collapses a window of reports into live state. ok is false for
// an empty window: the place keeps whatever state it had. That
// hold-last-value behavior is intentional, not a bug.
func Derive(reports []models.Report) (State, bool) {
	if len(reports) == 0 {
		return State{}, false
	}
	avg := Average(reports)
	return State{
		CurrentWaitTime: avg,
		CrowdLevel:      CrowdLevelFor(avg),
		ConfidenceLevel: ConfidenceLevelFor(len(reports)),
	}, true
}

// Recompute re-derives a place's live state from reports inside the
// window and pushes it to subscribed viewers.
func Recompute(ctx context.Context, placeID string, hub *live.Hub) error {
	since := time.Now().Add(-Window)
	cursor, err := db.ReportsCollection.Find(ctx, bson.M{
		"placeId":   placeID,
		"timestamp": bson.M{"$gte": since},
	})
	if err != nil {
		return fmt.Errorf("%w: fetching reports: %v", apperr.ErrStorage, err)
	}
	defer cursor.Close(ctx)

	var reports []models.Report
	if err := cursor.All(ctx, &reports); err != nil {
		return fmt.Errorf("%w: decoding reports: %v", apperr.ErrStorage, err)
	}

	state, ok := Derive(reports)
	if !ok {
		return nil
	}
	now := time.Now()

	// Single $set keeps the write atomic; concurrent recomputes and
	// official updates race last-writer-wins, which is the accepted
	// behavior for this state.
	_, err = db.PlacesCollection.UpdateOne(ctx,
		bson.M{"placeid": placeID},
		bson.M{"$set": bson.M{
			"currentWaitTime": state.CurrentWaitTime,
			"crowdLevel":      state.CrowdLevel,
			"confidenceLevel": state.ConfidenceLevel,
			"lastUpdated":     now,
		}},
	)
	if err != nil {
		return fmt.Errorf("%w: updating place: %v", apperr.ErrStorage, err)
	}

	update := live.Update{
		PlaceID:         placeID,
		CurrentWaitTime: state.CurrentWaitTime,
		CrowdLevel:      state.CrowdLevel,
		ConfidenceLevel: state.ConfidenceLevel,
		LastUpdated:     now,
	}
	hub.Publish(update)
	mq.Emit(update)

	return nil
}

// RecentReports returns reports for a place newer than the given cutoff,
// most recent first.
func RecentReports(ctx context.Context, placeID string, since time.Time) ([]models.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := db.ReportsCollection.Find(ctx, bson.M{
		"placeId":   placeID,
		"timestamp": bson.M{"$gte": since},
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching reports: %v", apperr.ErrStorage, err)
	}
	defer cursor.Close(ctx)

	var reports []models.Report
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("%w: decoding reports: %v", apperr.ErrStorage, err)
	}
	return reports, nil
}
