package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"finstagram/db"
	"finstagram/globals"
	"finstagram/middleware"
	"finstagram/models"
	"finstagram/profile"
	"finstagram/rdx"
	"finstagram/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 72 * time.Hour

// Register handles POST /api/v1/auth/register
func Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" || input.Password == "" {
		utils.RespondError(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	user := models.User{
		UserID:       utils.GenerateRandomString(12),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    time.Now(),
	}

	if _, err := db.UserCollection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondError(w, http.StatusConflict, "Username already taken")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	if err := profile.CreateFollowEntry(ctx, user.UserID); err != nil {
		log.Printf("failed to seed follow entry for %s: %v", user.UserID, err)
	}
	if err := rdx.RdxHset("users", user.UserID, user.Username); err != nil {
		log.Printf("failed to cache username for %s: %v", user.UserID, err)
	}

	utils.RespondSuccess(w, http.StatusCreated, utils.M{
		"userid":   user.UserID,
		"username": user.Username,
	})
}

// Login handles POST /api/v1/auth/login
func Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"username": input.Username}).Decode(&user)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := issueToken(user)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	_, err = db.UserCollection.UpdateOne(ctx,
		bson.M{"userid": user.UserID},
		bson.M{"$set": bson.M{"last_login": time.Now()}},
	)
	if err != nil {
		log.Printf("failed to record last login for %s: %v", user.UserID, err)
	}

	utils.RespondSuccess(w, http.StatusOK, utils.M{
		"token":    token,
		"userid":   user.UserID,
		"username": user.Username,
	})
}

// Logout handles POST /api/v1/auth/logout. Tokens are stateless; the
// endpoint exists so clients have a uniform place to end a session.
func Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	utils.RespondSuccess(w, http.StatusOK, utils.M{"loggedOut": true})
}

func issueToken(user models.User) (string, error) {
	claims := &middleware.Claims{
		Username: user.Username,
		UserID:   user.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(globals.JwtSecret)
}
