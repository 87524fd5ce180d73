package reports

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"waitline/aggregate"
	"waitline/db"
	"waitline/live"
	"waitline/models"
	"waitline/rdx"
	"waitline/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Each bucket label maps to a fixed representative wait in minutes.
// Clients depend on these exact values; do not change them.
var bucketValues = map[string]int{
	"0-10 min":  5,
	"10-30 min": 20,
	"30-60 min": 45,
	"60+ min":   75,
}

type submitInput struct {
	PlaceID       string `json:"placeId"`
	WaitTimeRange string `json:"waitTimeRange"`
}

// SubmitReport appends a crowd report and synchronously recomputes the
// place's live state, so the submitter always reads fresh state after a
// 201. Fan-out to other viewers rides the hub and is async.
func SubmitReport(hub *live.Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		var input submitInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
			return
		}

		waitTime, ok := bucketValues[input.WaitTimeRange]
		if !ok {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid wait time range")
			return
		}

		err := db.PlacesCollection.FindOne(ctx, bson.M{"placeid": input.PlaceID}).Err()
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "No place found with that ID")
			return
		} else if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Database error")
			return
		}

		report := models.Report{
			ReportID:         utils.GetUUID(),
			PlaceID:          input.PlaceID,
			WaitTimeReported: waitTime,
			WaitTimeRange:    input.WaitTimeRange,
			Timestamp:        time.Now(),
		}

		if _, err := db.ReportsCollection.InsertOne(ctx, report); err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save report")
			return
		}

		// Synchronous on purpose: the caller may rely on fresh place
		// state once this returns. The report is already stored; a
		// failed recompute leaves the prior state standing.
		if err := aggregate.Recompute(ctx, input.PlaceID, hub); err != nil {
			log.Printf("recompute failed for %s: %v", input.PlaceID, err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update wait time stats")
			return
		}

		// Invalidate only after the new currentWaitTime is written, or
		// a concurrent list request re-caches the stale ordering.
		rdx.RdxDel("places")

		utils.RespondWithJSON(w, http.StatusCreated, map[string]any{
			"status": "success",
			"data":   report,
		})
	}
}
