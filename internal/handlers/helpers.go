package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ternarybob/lukz/internal/common"
)

// RequireMethod validates that the HTTP request uses the specified method.
// Returns true if the method matches, false otherwise (and writes error response).
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return false
	}
	return true
}

// WriteJSON writes a JSON response with the specified status code and data.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes the standard {"status":"success"} body.
func WriteSuccess(w http.ResponseWriter) error {
	return WriteJSON(w, http.StatusOK, map[string]string{
		"status": "success",
	})
}

// WriteError writes a standard error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// paramError is a client-facing message for a malformed query parameter
type paramError string

func (e paramError) Error() string { return string(e) }

// queryText returns the sanitized value of a free-text query parameter.
func queryText(r *http.Request, name string) string {
	return common.SanitizeInput(r.URL.Query().Get(name))
}

// queryEnum returns a sanitized, lowercased enum parameter.
func queryEnum(r *http.Request, name string) string {
	return strings.ToLower(queryText(r, name))
}

func queryBool(r *http.Request, name string, def bool) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def, paramError(fmt.Sprintf("Invalid %s value, expected true or false", name))
	}
	return v, nil
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def, paramError(fmt.Sprintf("Invalid %s value, expected an integer", name))
	}
	return v, nil
}
