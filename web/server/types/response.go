package types

import "net/http"

// Response defines the interface for HTTP response wrappers.
type Response interface {
	GetStatusCode() int
	SetStatusCode(int)
	GetError() error
	SetError(*Error)
	GetHeader() http.Header
	SetHeader(http.Header)
}

// BaseResponse provides a base implementation of Response.
type BaseResponse struct {
	StatusCode int    `json:"status_code"`
	Status     string `json:"status"`
	Error      *Error `json:"error,omitempty"`

	header http.Header
}

var _ Response = (*BaseResponse)(nil)

// NewBaseResponse returns a response with the given status code and optional
// error.
func NewBaseResponse(statusCode int, err *Error) BaseResponse {
	return BaseResponse{
		StatusCode: statusCode,
		Status:     http.StatusText(statusCode),
		Error:      err,
		header:     http.Header{},
	}
}

// GetStatusCode returns the HTTP status code for the response.
func (r *BaseResponse) GetStatusCode() int {
	if r.StatusCode == 0 {
		return http.StatusOK
	}
	return r.StatusCode
}

// SetStatusCode sets the HTTP status code and text of the response.
func (r *BaseResponse) SetStatusCode(code int) {
	r.StatusCode = code
	r.Status = http.StatusText(code)
}

// GetError returns the response error, or nil.
func (r *BaseResponse) GetError() error {
	if r.Error == nil {
		return nil
	}
	return r.Error
}

// SetError sets the response error.
func (r *BaseResponse) SetError(err *Error) {
	r.Error = err
}

// GetHeader returns the response headers.
func (r *BaseResponse) GetHeader() http.Header {
	if r.header == nil {
		r.header = http.Header{}
	}
	return r.header
}

// SetHeader copies the response headers into h, and makes h the response
// headers.
func (r *BaseResponse) SetHeader(h http.Header) {
	for k, v := range r.header {
		h[k] = v
	}
	r.header = h
}
