package httputil

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response shape every endpoint returns.
// Clients depend on this: success responses and error responses differ
// only in the Success flag and which optional fields are populated.
type Envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Data    interface{}         `json:"data,omitempty"`
	Count   *int                `json:"count,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// RespondWithData writes a success envelope
func RespondWithData(w http.ResponseWriter, code int, message string, data interface{}) {
	writeJSON(w, code, Envelope{Success: true, Message: message, Data: data})
}

// RespondWithList writes a success envelope carrying a collection and its size
func RespondWithList(w http.ResponseWriter, code int, message string, data interface{}, count int) {
	writeJSON(w, code, Envelope{Success: true, Message: message, Data: data, Count: &count})
}

// RespondWithError writes an error envelope with a single message
func RespondWithError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, Envelope{Success: false, Message: message})
}

// RespondWithFieldErrors writes an error envelope carrying per-field validation messages
func RespondWithFieldErrors(w http.ResponseWriter, code int, message string, fieldErrors map[string][]string) {
	writeJSON(w, code, Envelope{Success: false, Message: message, Errors: fieldErrors})
}

func writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
