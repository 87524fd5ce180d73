package routes

import (
	"net/http"

	"waitline/auth"
	"waitline/insights"
	"waitline/live"
	"waitline/middleware"
	"waitline/places"
	"waitline/ratelim"
	"waitline/reports"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router) {
	router.POST("/api/auth/register", auth.Register)
	router.POST("/api/auth/login", auth.Login)
	router.GET("/api/auth/me", middleware.Authenticate(auth.Me))
}

func AddPlaceRoutes(router *httprouter.Router, hub *live.Hub, gen insights.Generator) {
	router.GET("/api/places", places.GetPlaces)
	router.GET("/api/places/:placeid", places.GetPlaceDetails(gen))
	router.POST("/api/places", places.CreatePlace) // seed/admin
	router.PUT("/api/places/:placeid/official", middleware.Authenticate(places.UpdateOfficialWaitTime(hub)))

	router.GET("/api/places/:placeid/qr", places.PlaceQR)
	router.GET("/api/places/:placeid/poster", places.PlacePoster)
	router.POST("/api/places/:placeid/banner", middleware.Authenticate(places.UploadBanner))
}

func AddReportRoutes(router *httprouter.Router, hub *live.Hub, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/reports", rateLimiter.Limit(reports.SubmitReport(hub)))
}

func AddLiveRoutes(router *httprouter.Router, hub *live.Hub) {
	router.GET("/ws/updates", live.WebSocketHandler(hub))
}

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/placepic/*filepath", http.Dir("static/placepic"))
}
