package places

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"waitline/apperr"
	"waitline/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

func publicPlaceURL(placeID string) string {
	base := os.Getenv("FRONTEND_URL")
	if base == "" {
		base = "http://localhost:5173"
	}
	return base + "/places/" + placeID
}

// PlaceQR returns a PNG QR code linking visitors to the place page,
// where they can check the wait and file a report.
func PlaceQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	place, err := findPlace(ctx, ps.ByName("placeid"))
	if err != nil {
		utils.RespondWithError(w, apperr.Status(err), "Place not found")
		return
	}

	qrPNG, err := qrcode.Encode(publicPlaceURL(place.PlaceID), qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(qrPNG)
}

// PlacePoster renders a printable A4 poster with the place's QR code,
// meant for the counter or front door.
func PlacePoster(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	place, err := findPlace(ctx, ps.ByName("placeid"))
	if err != nil {
		utils.RespondWithError(w, apperr.Status(err), "Place not found")
		return
	}

	qrPNG, err := qrcode.Encode(publicPlaceURL(place.PlaceID), qrcode.Medium, 512)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 26)
	pdf.CellFormat(0, 15, "How long is the wait?", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 14)
	pdf.MultiCell(0, 8, fmt.Sprintf("%s\n%s, %s", place.Name, place.Address, place.City), "", "C", false)
	pdf.Ln(8)

	imgOpts := gofpdf.ImageOptions{ImageType: "png"}
	pdf.RegisterImageOptionsReader("qr", imgOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 65, 80, 80, 80, false, imgOpts, 0, "")

	pdf.SetY(170)
	pdf.SetFont("Arial", "", 13)
	pdf.CellFormat(0, 10, "Scan to see the live wait time and report yours.", "", 1, "C", false, 0, "")

	pdf.SetY(-30)
	pdf.SetFont("Arial", "I", 10)
	pdf.CellFormat(0, 10, "Crowd-reported. Updated in real time.", "T", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate poster")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=poster-"+place.PlaceID+".pdf")
	w.Write(buf.Bytes())
}
