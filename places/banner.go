package places

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"waitline/apperr"
	"waitline/db"
	"waitline/globals"
	"waitline/rdx"
	"waitline/utils"

	"github.com/disintegration/imaging"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

const bannerDir = "./static/placepic"

// UploadBanner stores an owner-supplied banner image, resized to a
// uniform width.
func UploadBanner(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	place, err := findPlace(ctx, ps.ByName("placeid"))
	if err != nil {
		utils.RespondWithError(w, apperr.Status(err), "Place not found")
		return
	}
	if place.OwnerID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "Only the place owner can change the banner")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	file, header, err := r.FormFile("banner")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Banner file is required")
		return
	}
	defer file.Close()

	if !utils.ValidateImageFileType(w, header) {
		return
	}

	img, err := imaging.Decode(file)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unreadable image")
		return
	}
	resized := imaging.Resize(img, 800, 0, imaging.Lanczos)

	if err := utils.EnsureDir(bannerDir); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store banner")
		return
	}
	filename := place.PlaceID + ".jpg"
	if err := imaging.Save(resized, filepath.Join(bannerDir, filename)); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to store banner")
		return
	}

	_, err = db.PlacesCollection.UpdateOne(ctx,
		bson.M{"placeid": place.PlaceID},
		bson.M{"$set": bson.M{"banner": filename}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update place")
		return
	}
	rdx.RdxDel("places")

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"banner": filename,
	})
}
