package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"waitline/aggregate"
	"waitline/apperr"
	"waitline/db"
	"waitline/insights"
	"waitline/models"
	"waitline/rdx"
	"waitline/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const displayWindow = 3 * time.Hour

// placesCacheTTL bounds how long a stale listing can survive if an
// invalidation is lost (process crash between write and delete).
const placesCacheTTL = 2 * time.Minute

func findPlace(ctx context.Context, placeID string) (models.Place, error) {
	var place models.Place
	err := db.PlacesCollection.FindOne(ctx, bson.M{"placeid": placeID}).Decode(&place)
	if err == mongo.ErrNoDocuments {
		return place, fmt.Errorf("%w: place %s", apperr.ErrNotFound, placeID)
	} else if err != nil {
		return place, fmt.Errorf("%w: fetching place: %v", apperr.ErrStorage, err)
	}
	return place, nil
}

// GetPlaces lists places sorted by current wait time, cheapest first.
// Ties keep insertion order; there is deliberately no secondary sort key.
func GetPlaces(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	category := r.URL.Query().Get("category")
	city := r.URL.Query().Get("city")

	// Unfiltered listing is the hot path; serve it from cache.
	if category == "" && city == "" {
		if cached, _ := rdx.RdxGet("places"); cached != "" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(cached))
			return
		}
	}

	query := bson.M{}
	if category != "" {
		query["category"] = category
	}
	if city != "" {
		query["city"] = primitive.Regex{Pattern: city, Options: "i"}
	}

	opts := options.Find().SetSort(bson.D{{Key: "currentWaitTime", Value: 1}})
	cursor, err := db.PlacesCollection.Find(ctx, query, opts)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch places")
		return
	}
	defer cursor.Close(ctx)

	var places []models.Place
	if err := cursor.All(ctx, &places); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to decode places")
		return
	}
	if places == nil {
		places = []models.Place{}
	}

	payload := map[string]any{
		"status":  "success",
		"results": len(places),
		"data":    places,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to encode places")
		return
	}
	if category == "" && city == "" {
		rdx.SetWithExpiry("places", string(data), placesCacheTTL)
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

type placeDetails struct {
	models.Place
	ReportsCount  int             `json:"reportsCount"`
	RecentReports []models.Report `json:"recentReports"`
	Insights      []string        `json:"insights"`
}

// GetPlaceDetails returns the place plus its recent report activity and
// generated insights for the detail view.
func GetPlaceDetails(gen insights.Generator) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		place, err := findPlace(ctx, ps.ByName("placeid"))
		if err != nil {
			utils.RespondWithError(w, apperr.Status(err), "Place not found")
			return
		}

		reports, err := aggregate.RecentReports(ctx, place.PlaceID, time.Now().Add(-displayWindow))
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch reports")
			return
		}

		recent := reports
		if len(recent) > 5 {
			recent = recent[:5]
		}
		if recent == nil {
			recent = []models.Report{}
		}

		details := placeDetails{
			Place:         place,
			ReportsCount:  len(reports),
			RecentReports: recent,
			Insights:      gen.Generate(ctx, place, reports),
		}
		utils.RespondWithJSON(w, http.StatusOK, map[string]any{
			"status": "success",
			"data":   details,
		})
	}
}

type createPlaceInput struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Address  string `json:"address"`
	City     string `json:"city"`
}

// CreatePlace seeds a new place with default live state.
func CreatePlace(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var input createPlaceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Name == "" || input.Address == "" || input.City == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if !models.ValidCategory(input.Category) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid category")
		return
	}

	place := NewPlace(input.Name, input.Category, input.Address, input.City, "")
	if _, err := db.PlacesCollection.InsertOne(ctx, place); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create place")
		return
	}
	rdx.RdxDel("places")

	utils.RespondWithJSON(w, http.StatusCreated, map[string]any{
		"status": "success",
		"data":   place,
	})
}

// NewPlace builds a place with default live state: zero wait, low crowd,
// low confidence.
func NewPlace(name, category, address, city, ownerID string) models.Place {
	now := time.Now()
	return models.Place{
		PlaceID:         "p" + utils.GenerateRandomString(10),
		Name:            name,
		Category:        category,
		Address:         address,
		City:            city,
		OwnerID:         ownerID,
		CurrentWaitTime: 0,
		CrowdLevel:      models.LevelLow,
		ConfidenceLevel: models.LevelLow,
		LastUpdated:     now,
		CreatedAt:       now,
	}
}
