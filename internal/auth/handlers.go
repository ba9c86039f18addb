package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mnatlas/atlas-backend/internal/db"
	"github.com/mnatlas/atlas-backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

const sessionTTL = 6 * time.Hour

func RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var user User

	err := json.NewDecoder(r.Body).Decode(&user)
	if err != nil {
		http.Error(w, "Invalid Request Format", http.StatusBadRequest)
		return
	}

	if user.Username == "" || user.Password == "" {
		http.Error(w, "Username and password are required", http.StatusBadRequest)
		return
	}

	// Check if username is taken
	var existing User
	err = db.DB.First(&existing, "username = ?", user.Username).Error
	if err == nil {
		http.Error(w, "Username already taken", http.StatusConflict)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Server error hashing password", http.StatusInternalServerError)
		return
	}
	user.HashedPassword = string(hashed)
	user.UserID = utils.GenerateUUID()
	user.Role = "user"
	user.Password = ""

	if err := db.DB.Create(&user).Error; err != nil {
		http.Error(w, "Failed to register user", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"user_id":  user.UserID,
		"username": user.Username,
	})
}

func LoginHandler(w http.ResponseWriter, r *http.Request) {
	var creds User
	var user User

	err := json.NewDecoder(r.Body).Decode(&creds)
	if err != nil {
		http.Error(w, "Invalid Data", http.StatusBadRequest)
		return
	}

	err = db.DB.First(&user, "username = ?", creds.Username).Error
	if err != nil {
		http.Error(w, "Invalid Credentials", http.StatusUnauthorized)
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(creds.Password))
	if err != nil {
		http.Error(w, "Invalid Credentials", http.StatusUnauthorized)
		return
	}

	sessionID := utils.GenerateUUID()

	// One session per user: replace an existing row, otherwise create one.
	// The cookie is only set once the row exists; a cookie pointing at no
	// session would 401 every subsequent request.
	var existing Session
	db.DB.Where("user_id = ?", user.UserID).First(&existing)
	if existing.UserID != "" {
		err = db.DB.Model(&existing).Updates(Session{
			SessionID: sessionID,
			ExpiresAt: time.Now().Add(sessionTTL),
		}).Error
	} else {
		session := Session{
			SessionID: sessionID,
			UserID:    user.UserID,
			ExpiresAt: time.Now().Add(sessionTTL),
		}
		err = db.DB.Create(&session).Error
	}
	if err != nil {
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session_id",
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   true,
	})

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Login successful")
}

func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	var session Session

	cookie, err := r.Cookie("session_id")
	if err != nil {
		http.Error(w, "Couldn't find cookie", http.StatusUnauthorized)
		return
	}

	err = db.DB.First(&session, "session_id = ?", cookie.Value).Error
	if err != nil {
		http.Error(w, "Couldn't find session", http.StatusUnauthorized)
		return
	}

	db.DB.Delete(&session)

	http.SetCookie(w, &http.Cookie{
		Name:   "session_id",
		Value:  "",
		MaxAge: -1,
		Path:   "/",
	})

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Logout successful")
}

type MeResponse struct {
	UserID        string `json:"user_id"`
	Username      string `json:"username"`
	Role          string `json:"role"`
	DisplayName   string `json:"display_name"`
	HomeCounty    string `json:"home_county"`
	ProfilePicURL string `json:"profile_pic_url"`
}

func MeHandler(w http.ResponseWriter, r *http.Request) {
	var user User

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Missing user ID in context", http.StatusInternalServerError)
		return
	}

	err := db.DB.First(&user, "user_id = ?", userID).Error
	if err != nil {
		http.Error(w, "Couldn't find user", http.StatusNotFound)
		return
	}

	response := MeResponse{
		UserID:        userID,
		Username:      user.Username,
		Role:          user.Role,
		DisplayName:   user.DisplayName,
		HomeCounty:    user.HomeCounty,
		ProfilePicURL: user.ProfilePicURL,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	type ProfileUpdate struct {
		DisplayName   *string `json:"display_name"`
		HomeCounty    *string `json:"home_county"`
		ProfilePicURL *string `json:"profile_pic_url"`
	}

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Missing user ID in context", http.StatusInternalServerError)
		return
	}

	var update ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid Request Format", http.StatusBadRequest)
		return
	}

	fields := map[string]interface{}{}
	if update.DisplayName != nil {
		fields["display_name"] = *update.DisplayName
	}
	if update.HomeCounty != nil {
		fields["home_county"] = *update.HomeCounty
	}
	if update.ProfilePicURL != nil {
		fields["profile_pic_url"] = *update.ProfilePicURL
	}
	if len(fields) == 0 {
		http.Error(w, "Nothing to update", http.StatusBadRequest)
		return
	}

	if err := db.DB.Model(&User{}).Where("user_id = ?", userID).Updates(fields).Error; err != nil {
		http.Error(w, "Failed to update profile", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Profile updated")
}

func UpdatePasswordHandler(w http.ResponseWriter, r *http.Request) {
	type UpdatePassword struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}

	var user User
	var updatepass UpdatePassword

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Missing user ID in context", http.StatusInternalServerError)
		return
	}

	err := db.DB.First(&user, "user_id = ?", userID).Error
	if err != nil {
		http.Error(w, "Couldn't find user", http.StatusUnauthorized)
		return
	}

	err = json.NewDecoder(r.Body).Decode(&updatepass)
	if err != nil || updatepass.CurrentPassword == "" || updatepass.NewPassword == "" {
		http.Error(w, "Current and new password are required", http.StatusBadRequest)
		return
	}

	// Make sure user's current password matches stored hash before updating
	err = bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(updatepass.CurrentPassword))
	if err != nil {
		http.Error(w, "Invalid current password", http.StatusUnauthorized)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(updatepass.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Server error hashing password", http.StatusInternalServerError)
		return
	}

	db.DB.Model(&user).Update("hashed_password", string(hashed))

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "Password updated")
}
