// Package response writes the JSON shapes the storefront client expects:
// successful handlers return the resource document itself, failures return
// a {"message": "..."} payload.
package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes data as the response body with the given status code.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// OK sends a 200 response with data.
func OK(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, data)
}

// Created sends a 201 response with data.
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, data)
}

// Error sends a {"message": ...} payload with the given status.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"message": message})
}

// Message sends a 200 {"message": ...} payload (delete confirmations).
func Message(w http.ResponseWriter, message string) {
	JSON(w, http.StatusOK, map[string]string{"message": message})
}

// ValidationError sends a 422 with a field-level error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	JSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
		"message": "Dữ liệu không hợp lệ",
		"errors":  errs,
	})
}

// ServerError sends a 500. stack is included only when non-empty
// (the Recovery middleware passes it in local/dev environments).
func ServerError(w http.ResponseWriter, message, stack string) {
	body := map[string]interface{}{
		"success": false,
		"message": message,
	}
	if stack != "" {
		body["stack"] = stack
	}
	JSON(w, http.StatusInternalServerError, body)
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter, message string) {
	Error(w, http.StatusForbidden, message)
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}
