package utils

import (
	"encoding/json"
	"net/http"
)

// WriteJSON escreve payload como JSON com o status informado.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
