package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/mail"
	"time"

	"waitline/db"
	"waitline/globals"
	"waitline/middleware"
	"waitline/models"
	"waitline/places"
	"waitline/rdx"
	"waitline/utils"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 7 * 24 * time.Hour // 7 days

func signToken(user models.User) (string, error) {
	claims := &middleware.Claims{
		Email:  user.Email,
		UserID: user.UserID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}

type registerInput struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	BusinessName string `json:"businessName"`
	PlaceName    string `json:"placeName"`
	PlaceType    string `json:"placeType"`
	Address      string `json:"address"`
	City         string `json:"city"`
}

// registerHandler creates a business account together with the place it
// owns. The place starts with default live state.
func registerHandler(w http.ResponseWriter, r *http.Request) {
	var input registerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	if _, err := mail.ParseAddress(input.Email); err != nil {
		http.Error(w, "Invalid email format", http.StatusBadRequest)
		return
	}
	if len(input.Password) < 6 {
		http.Error(w, "Password must be at least 6 characters", http.StatusBadRequest)
		return
	}
	if input.BusinessName == "" || input.PlaceName == "" || input.Address == "" || input.City == "" {
		http.Error(w, "Missing required fields", http.StatusBadRequest)
		return
	}
	if !models.ValidCategory(input.PlaceType) {
		http.Error(w, "Invalid place type", http.StatusBadRequest)
		return
	}

	// Check if user already exists
	var existingUser models.User
	err := db.UserCollection.FindOne(context.TODO(), bson.M{"email": input.Email}).Decode(&existingUser)
	if err == nil {
		http.Error(w, "Email already registered", http.StatusConflict)
		return
	} else if err != mongo.ErrNoDocuments {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash password for %s: %v", input.Email, err)
		http.Error(w, "Failed to hash password", http.StatusInternalServerError)
		return
	}

	user := models.User{
		UserID:       "u" + utils.GenerateRandomString(10),
		Email:        input.Email,
		Password:     string(hashedPassword),
		BusinessName: input.BusinessName,
		Role:         []string{"business"},
		CreatedAt:    time.Now(),
	}
	if _, err := db.UserCollection.InsertOne(context.TODO(), user); err != nil {
		http.Error(w, "Failed to register user", http.StatusInternalServerError)
		return
	}

	place := places.NewPlace(input.PlaceName, input.PlaceType, input.Address, input.City, user.UserID)
	if _, err := db.PlacesCollection.InsertOne(context.TODO(), place); err != nil {
		http.Error(w, "Failed to create place", http.StatusInternalServerError)
		return
	}
	rdx.RdxDel("places")

	tokenString, err := signToken(user)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]any{
		"status": "success",
		"token":  tokenString,
		"user": map[string]string{
			"id":           user.UserID,
			"email":        user.Email,
			"businessName": user.BusinessName,
		},
		"place": map[string]string{
			"id":   place.PlaceID,
			"name": place.Name,
		},
	})
}

func loginHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if input.Email == "" || input.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	var storedUser models.User
	err := db.UserCollection.FindOne(context.TODO(), bson.M{"email": input.Email}).Decode(&storedUser)
	if err != nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedUser.Password), []byte(input.Password)); err != nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	tokenString, err := signToken(storedUser)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	_, err = db.UserCollection.UpdateOne(
		context.TODO(),
		bson.M{"userid": storedUser.UserID},
		bson.M{"$set": bson.M{"last_login": time.Now()}},
	)
	if err != nil {
		log.Printf("Failed to record login for %s: %v", storedUser.UserID, err)
	}

	var place models.Place
	placeOut := map[string]string(nil)
	err = db.PlacesCollection.FindOne(context.TODO(), bson.M{"ownerId": storedUser.UserID}).Decode(&place)
	if err == nil {
		placeOut = map[string]string{"id": place.PlaceID, "name": place.Name}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"token":  tokenString,
		"user": map[string]string{
			"id":           storedUser.UserID,
			"email":        storedUser.Email,
			"businessName": storedUser.BusinessName,
		},
		"place": placeOut,
	})
}

// meHandler returns the authenticated owner and their place.
func meHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(globals.UserIDKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var user models.User
	err := db.UserCollection.FindOne(context.TODO(), bson.M{"userid": userID}).Decode(&user)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	var place models.Place
	resp := map[string]any{
		"status": "success",
		"user":   user,
	}
	if err := db.PlacesCollection.FindOne(context.TODO(), bson.M{"ownerId": userID}).Decode(&place); err == nil {
		resp["place"] = place
	}

	utils.RespondWithJSON(w, http.StatusOK, resp)
}
