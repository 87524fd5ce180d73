package places

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"waitline/apperr"
	"waitline/db"
	"waitline/globals"
	"waitline/live"
	"waitline/mq"
	"waitline/rdx"
	"waitline/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

type officialInput struct {
	WaitTime *int `json:"waitTime"`
}

// officialSet builds the update document for an official wait time. The
// official value stomps currentWaitTime too, so list sorting and live
// viewers pick it up immediately.
func officialSet(waitTime int, now time.Time) bson.M {
	return bson.M{"$set": bson.M{
		"officialWaitTime": waitTime,
		"officialUpdateAt": now,
		"currentWaitTime":  waitTime,
		"lastUpdated":      now,
	}}
}

// UpdateOfficialWaitTime lets the registered owner set an authoritative
// wait time. It overwrites currentWaitTime directly, bypassing the crowd
// window; a later crowd recompute may overwrite it again. That race is
// last-writer-wins on purpose.
func UpdateOfficialWaitTime(hub *live.Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		userID, ok := r.Context().Value(globals.UserIDKey).(string)
		if !ok || userID == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var input officialInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.WaitTime == nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
			return
		}
		waitTime := *input.WaitTime
		if waitTime < 0 || waitTime > 300 {
			utils.RespondWithError(w, http.StatusBadRequest, "Wait time must be between 0 and 300 minutes")
			return
		}

		place, err := findPlace(ctx, ps.ByName("placeid"))
		if err != nil {
			utils.RespondWithError(w, apperr.Status(err), "Place not found")
			return
		}
		if place.OwnerID != userID {
			utils.RespondWithError(w, http.StatusForbidden, "Only the place owner can set official wait times")
			return
		}

		now := time.Now()
		_, err = db.PlacesCollection.UpdateOne(ctx,
			bson.M{"placeid": place.PlaceID},
			officialSet(waitTime, now),
		)
		if err != nil {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update place")
			return
		}
		rdx.RdxDel("places")

		place.OfficialWaitTime = &waitTime
		place.OfficialUpdateAt = &now
		place.CurrentWaitTime = waitTime
		place.LastUpdated = now

		update := live.Update{
			PlaceID:         place.PlaceID,
			CurrentWaitTime: waitTime,
			LastUpdated:     now,
			Type:            "official",
		}
		hub.Publish(update)
		mq.Emit(update)

		utils.RespondWithJSON(w, http.StatusOK, map[string]any{
			"status": "success",
			"data":   place,
		})
	}
}
