package server

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response is the envelope of every reply.
type Response struct {
	Status int `json:"status"`
	Body   any `json:"body,omitempty"`
}

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

const internalErrorJSON = `{"status": 500, "body": {"error": "internal server error"}}`

func writeResponse(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(Response{Status: status, Body: body})
	if err != nil {
		writeInternalError(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeResponse(w, status, ErrorResponse{Error: msg})
}

// writeInternalError is http.Error with a JSON content type.
func writeInternalError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = fmt.Fprintln(w, internalErrorJSON)
}
