package common

import (
	"encoding/json"
	"net/http"

	"github.com/kryptapp/krypt/pkg/krypt"
)

type ResponseType string

const (
	ResponseTypeObject ResponseType = "object"
	ResponseTypeArray  ResponseType = "array"
	ResponseTypeError  ResponseType = "error"
)

type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// Response is the default response object
type Response struct {
	ResponseType ResponseType `json:"response_type"`
	Object       any          `json:"object,omitempty"`
	Array        any          `json:"array,omitempty"`
	Error        *ErrorBody   `json:"error,omitempty"`
	Meta         any          `json:"meta,omitempty"`
}

type ErrorBody struct {
	Kind    krypt.ErrorKind `json:"kind"`
	Message string          `json:"message"`
}

func Body(w http.ResponseWriter, body any, meta any) error {
	return write(w, http.StatusOK, &Response{
		ResponseType: ResponseTypeObject,
		Object:       body,
		Meta:         meta,
	})
}

func BodyMultiple(w http.ResponseWriter, body any, meta any) error {
	return write(w, http.StatusOK, &Response{
		ResponseType: ResponseTypeArray,
		Array:        body,
		Meta:         meta,
	})
}

// ErrorResponse writes err with a status derived from its kind
func ErrorResponse(w http.ResponseWriter, err error) error {
	kind := krypt.KindOf(err)

	msg := err.Error()
	if n := krypt.NoticeFromError(err); n.Message != "" {
		msg = n.Message
	}

	return write(w, StatusForKind(kind), &Response{
		ResponseType: ResponseTypeError,
		Error: &ErrorBody{
			Kind:    kind,
			Message: msg,
		},
	})
}

func StatusForKind(kind krypt.ErrorKind) int {
	switch kind {
	case krypt.ErrorKindValidationFailed:
		return http.StatusBadRequest
	case krypt.ErrorKindUserRejected:
		return http.StatusForbidden
	case krypt.ErrorKindBusy:
		return http.StatusConflict
	case krypt.ErrorKindWalletUnavailable:
		return http.StatusServiceUnavailable
	case krypt.ErrorKindLedgerUnreachable, krypt.ErrorKindSubmissionFailed:
		return http.StatusBadGateway
	case krypt.ErrorKindConfirmationTimeout:
		return http.StatusGatewayTimeout
	}

	return http.StatusInternalServerError
}

func write(w http.ResponseWriter, status int, resp *Response) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(b)

	return nil
}
