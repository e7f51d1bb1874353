package server

import (
	"net/http"

	"github.com/go-chi/render"
)

// Response status codes carried in APIResponse.Status.
const (
	StatusOK         = 0
	StatusBadRequest = 400
)

// APIResponse is the envelope of every JSON response.
type APIResponse struct {
	Status int    `json:"status"`
	Msg    string `json:"msg"`
	Data   any    `json:"data,omitempty"`
}

// SuccessResponse wraps data in a success envelope.
func SuccessResponse(msg string, data any) APIResponse {
	return APIResponse{Status: StatusOK, Msg: msg, Data: data}
}

// BadRequestResponse reports invalid input; data carries the details.
func BadRequestResponse(msg string, data any) APIResponse {
	return APIResponse{Status: StatusBadRequest, Msg: msg, Data: data}
}

func respond(w http.ResponseWriter, r *http.Request, code int, resp APIResponse) {
	render.Status(r, code)
	render.JSON(w, r, resp)
}
