package mentions

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mnatlas/atlas-backend/internal/auth"
	"github.com/mnatlas/atlas-backend/internal/db"
	"github.com/mnatlas/atlas-backend/internal/utils"
)

// Minnesota bounding box, used to reject pins dropped outside the state.
const (
	minLat = 43.4
	maxLat = 49.5
	minLng = -97.3
	maxLng = -89.4
)

// GetPins handles GET /mentions/pins?min_lat=&max_lat=&min_lng=&max_lng=&category=&tag=
// All filters are optional; without a bbox the full pin set is returned.
func GetPins(w http.ResponseWriter, r *http.Request) {
	q := db.DB.WithContext(r.Context()).Model(&Pin{})

	parse := func(name string) (float64, bool) {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			return 0, false
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}

	if v, ok := parse("min_lat"); ok {
		q = q.Where("lat >= ?", v)
	}
	if v, ok := parse("max_lat"); ok {
		q = q.Where("lat <= ?", v)
	}
	if v, ok := parse("min_lng"); ok {
		q = q.Where("lng >= ?", v)
	}
	if v, ok := parse("max_lng"); ok {
		q = q.Where("lng <= ?", v)
	}
	if cat := r.URL.Query().Get("category"); cat != "" {
		q = q.Where("category = ?", cat)
	}
	if tag := r.URL.Query().Get("tag"); tag != "" {
		q = q.Where("? = ANY(tags)", tag)
	}

	var pins []Pin
	if err := q.Order("created_at DESC").Limit(1000).Find(&pins).Error; err != nil {
		http.Error(w, "Failed to fetch pins", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pins)
}

// CreatePin handles POST /mentions/pins
func CreatePin(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Missing user ID in context", http.StatusInternalServerError)
		return
	}

	var pin Pin
	if err := json.NewDecoder(r.Body).Decode(&pin); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if pin.Title == "" {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}
	if pin.Lat < minLat || pin.Lat > maxLat || pin.Lng < minLng || pin.Lng > maxLng {
		http.Error(w, "Pin is outside Minnesota", http.StatusBadRequest)
		return
	}

	pin.ID = uuid.Nil // let the database assign it
	pin.UserID = userID

	if err := db.DB.Create(&pin).Error; err != nil {
		http.Error(w, "Failed to create pin", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(pin)
}

// DeletePin handles DELETE /mentions/pins/{id}. Owners can delete their own
// pins; admins can delete anything (moderation).
func DeletePin(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Missing user ID in context", http.StatusInternalServerError)
		return
	}

	pinID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid pin id", http.StatusBadRequest)
		return
	}

	var pin Pin
	if err := db.DB.First(&pin, "id = ?", pinID).Error; err != nil {
		http.Error(w, "Pin not found", http.StatusNotFound)
		return
	}

	if pin.UserID != userID && !isAdmin(userID) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	if err := db.DB.Delete(&pin).Error; err != nil {
		http.Error(w, "Failed to delete pin", http.StatusInternalServerError)
		return
	}
	db.DB.Where("pin_id = ?", pinID).Delete(&CollectionPin{})

	w.WriteHeader(http.StatusNoContent)
}

func isAdmin(userID string) bool {
	var role string
	err := db.DB.Raw(`SELECT role FROM app_auth.users WHERE user_id = ?`, userID).Scan(&role).Error
	return err == nil && role == "admin"
}

// CreateCollection handles POST /mentions/collections
func CreateCollection(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Missing user ID in context", http.StatusInternalServerError)
		return
	}

	var col Collection
	if err := json.NewDecoder(r.Body).Decode(&col); err != nil || col.Title == "" {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}

	col.ID = uuid.Nil
	col.UserID = userID

	if err := db.DB.Create(&col).Error; err != nil {
		http.Error(w, "Failed to create collection", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(col)
}

// GetMyCollections handles GET /mentions/collections
func GetMyCollections(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Missing user ID in context", http.StatusInternalServerError)
		return
	}

	var cols []Collection
	if err := db.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&cols).Error; err != nil {
		http.Error(w, "Failed to fetch collections", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cols)
}

// GetCollectionPins handles GET /mentions/collections/{id}/pins.
// Public collections are visible to anyone; private ones only to the owner.
func GetCollectionPins(w http.ResponseWriter, r *http.Request) {
	colID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid collection id", http.StatusBadRequest)
		return
	}

	var col Collection
	if err := db.DB.First(&col, "id = ?", colID).Error; err != nil {
		http.Error(w, "Collection not found", http.StatusNotFound)
		return
	}

	// The route is public, so an owner viewing a private collection is
	// identified from the session cookie directly.
	if !col.IsPublic {
		owner := false
		if cookie, err := r.Cookie("session_id"); err == nil {
			if sd, err := (auth.SessionInfo{}).FindSessionByID(cookie.Value); err == nil &&
				sd.ExpiresAt.After(time.Now()) && sd.UserID == col.UserID {
				owner = true
			}
		}
		if !owner {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
	}

	var pins []Pin
	err = db.DB.
		Joins("JOIN mentions.collection_pins cp ON cp.pin_id = pins.id").
		Where("cp.collection_id = ?", colID).
		Order("cp.added_at").
		Find(&pins).Error
	if err != nil {
		http.Error(w, "Failed to fetch collection pins", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pins)
}

// AddPinToCollection handles POST /mentions/collections/{id}/pins
func AddPinToCollection(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Missing user ID in context", http.StatusInternalServerError)
		return
	}

	colID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid collection id", http.StatusBadRequest)
		return
	}

	var body struct {
		PinID string `json:"pin_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	pinID, err := uuid.Parse(body.PinID)
	if err != nil {
		http.Error(w, "Invalid pin id", http.StatusBadRequest)
		return
	}

	var col Collection
	if err := db.DB.First(&col, "id = ?", colID).Error; err != nil {
		http.Error(w, "Collection not found", http.StatusNotFound)
		return
	}
	if col.UserID != userID {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	link := CollectionPin{CollectionID: colID, PinID: pinID, AddedAt: time.Now()}
	if err := db.DB.Create(&link).Error; err != nil {
		http.Error(w, "Failed to add pin to collection", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
}
