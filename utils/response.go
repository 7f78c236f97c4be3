package utils

import (
	"encoding/json"
	"net/http"

	"finstagram/apperrors"
)

type M map[string]any

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// RespondSuccess writes the success envelope: {status:"success", data:{...}}.
func RespondSuccess(w http.ResponseWriter, statusCode int, data M) {
	RespondWithJSON(w, statusCode, M{
		"status": "success",
		"data":   data,
	})
}

// RespondResults is RespondSuccess for list endpoints. results is the length
// of the returned page, never a total count.
func RespondResults(w http.ResponseWriter, statusCode int, results int, data M) {
	RespondWithJSON(w, statusCode, M{
		"status":  "success",
		"results": results,
		"data":    data,
	})
}

// RespondError writes the error envelope: {status:"error", data:{error:{message}}}.
func RespondError(w http.ResponseWriter, statusCode int, msg string) {
	RespondWithJSON(w, statusCode, M{
		"status": "error",
		"data": M{
			"error": M{"message": msg},
		},
	})
}

// RespondErr translates a taxonomy error into the error envelope.
func RespondErr(w http.ResponseWriter, err error) {
	RespondError(w, apperrors.HTTPStatus(err), apperrors.Message(err))
}
