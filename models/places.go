package models

import "time"

type Place struct {
	PlaceID  string `json:"placeid" bson:"placeid"`
	Name     string `json:"name" bson:"name"`
	Category string `json:"category" bson:"category"`
	Address  string `json:"address" bson:"address"`
	City     string `json:"city" bson:"city"`
	OwnerID  string `json:"ownerId,omitempty" bson:"ownerId,omitempty"`
	Banner   string `json:"banner,omitempty" bson:"banner,omitempty"`

	// Derived live state, written by the aggregator (crowd path)
	// or directly by the owner (official path).
	CurrentWaitTime int       `json:"currentWaitTime" bson:"currentWaitTime"`
	CrowdLevel      string    `json:"crowdLevel" bson:"crowdLevel"`
	ConfidenceLevel string    `json:"confidenceLevel" bson:"confidenceLevel"`
	LastUpdated     time.Time `json:"lastUpdated" bson:"lastUpdated"`

	// Owner-set override; supersedes crowd aggregation for display
	// until the next crowd recompute or a newer official update.
	OfficialWaitTime *int       `json:"officialWaitTime,omitempty" bson:"officialWaitTime,omitempty"`
	OfficialUpdateAt *time.Time `json:"officialUpdateAt,omitempty" bson:"officialUpdateAt,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Crowd and confidence levels.
const (
	LevelLow    = "Low"
	LevelMedium = "Medium"
	LevelHigh   = "High"
)

var PlaceCategories = []string{
	"Clinic",
	"Hospital",
	"Restaurant",
	"Government Office",
	"Service Center",
	"Other",
}

func ValidCategory(c string) bool {
	for _, v := range PlaceCategories {
		if v == c {
			return true
		}
	}
	return false
}
