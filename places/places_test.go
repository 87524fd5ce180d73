package places

import (
	"strings"
	"testing"
	"time"

	"waitline/models"

	"go.mongodb.org/mongo-driver/bson"
)

func TestNewPlaceDefaults(t *testing.T) {
	place := NewPlace("City Clinic", "Clinic", "12 Main St", "Lagos", "u123")

	if !strings.HasPrefix(place.PlaceID, "p") || len(place.PlaceID) != 11 {
		t.Fatalf("unexpected place id: %q", place.PlaceID)
	}
	if place.CurrentWaitTime != 0 {
		t.Errorf("currentWaitTime = %d, want 0", place.CurrentWaitTime)
	}
	if place.CrowdLevel != models.LevelLow {
		t.Errorf("crowdLevel = %s, want Low", place.CrowdLevel)
	}
	if place.ConfidenceLevel != models.LevelLow {
		t.Errorf("confidenceLevel = %s, want Low", place.ConfidenceLevel)
	}
	if place.OwnerID != "u123" {
		t.Errorf("ownerId = %s, want u123", place.OwnerID)
	}
	if place.OfficialWaitTime != nil {
		t.Errorf("officialWaitTime should start unset")
	}
	if place.LastUpdated.IsZero() {
		t.Errorf("lastUpdated should be set at creation")
	}
}

// An official update must overwrite both the official field and the
// live currentWaitTime, or list sorting and broadcasts keep serving the
// crowd-derived value.
func TestOfficialSetStompsCurrentWaitTime(t *testing.T) {
	now := time.Now()
	doc := officialSet(25, now)

	set, ok := doc["$set"].(bson.M)
	if !ok {
		t.Fatalf("expected a $set document, got %v", doc)
	}
	if set["officialWaitTime"] != 25 {
		t.Errorf("officialWaitTime = %v, want 25", set["officialWaitTime"])
	}
	if set["currentWaitTime"] != 25 {
		t.Errorf("currentWaitTime = %v, want 25", set["currentWaitTime"])
	}
	if set["officialUpdateAt"] != now || set["lastUpdated"] != now {
		t.Errorf("timestamps not set: %v", set)
	}
}

func TestPublicPlaceURL(t *testing.T) {
	t.Setenv("FRONTEND_URL", "https://waitline.example")
	if got := publicPlaceURL("p123"); got != "https://waitline.example/places/p123" {
		t.Fatalf("publicPlaceURL = %q", got)
	}
}
