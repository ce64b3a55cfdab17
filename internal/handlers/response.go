package handlers

import (
	"encoding/json"
	"net/http"

	"taskManager/internal/handlers/dto"
)

func responseWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func responseWithError(w http.ResponseWriter, code int, message string) {
	responseWithJSON(w, code, dto.ErrorResponse{Message: message})
}
