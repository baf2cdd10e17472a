package types

import "net/http"

// LoginRequest is a login attempt sent to the API.
type LoginRequest struct {
	BaseRequest
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks that the request is valid and ready for processing. Values
// aren't checked; like the lab page, any string is accepted.
func (r *LoginRequest) Validate() error {
	if r.GetHTTPRequest() == nil {
		return NewError(http.StatusInternalServerError, "missing HTTP request")
	}
	return nil
}

// LoginResponse is the outcome of a login attempt. A failed login is not an
// HTTP error. Data is omitted from error responses.
type LoginResponse struct {
	BaseResponse
	Data *LoginResponseData `json:"data,omitempty"`
}

// LoginResponseData is the data sent in the LoginResponse.
type LoginResponseData struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username"`
	Avatar        string `json:"avatar,omitempty"`
	Message       string `json:"message"`
}

// NewLoginResponse creates a new LoginResponse with HTTP 200 status.
func NewLoginResponse(data LoginResponseData) *LoginResponse {
	return &LoginResponse{
		BaseResponse: NewBaseResponse(http.StatusOK, nil),
		Data:         &data,
	}
}
