package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var ErrActionNotAllowed = fmt.Errorf("action not allowed")
var ErrKeyImmutable = fmt.Errorf("cannot update key")
var ErrMissingKey = fmt.Errorf("missing key")
var ErrInvalidInput = fmt.Errorf("invalid input")
var ErrUnknownAttribute = fmt.Errorf("unknown attribute")

var ErrRequest = fmt.Errorf("request error")
var ErrBadResponse = fmt.Errorf("bad response")
var ErrBadRequest = fmt.Errorf("bad request")
var ErrUnauthorized = fmt.Errorf("unauthorized")
var ErrNotFound = fmt.Errorf("not found")
var ErrConflict = fmt.Errorf("conflict")
var ErrInternal = fmt.Errorf("internal error")

type myError struct {
	msg    string
	target error
}

func (m myError) Error() string        { return m.msg }
func (m myError) Is(target error) bool { return target == m.target }

func NewActionNotAllowedError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrActionNotAllowed,
	}
}

func NewKeyImmutableError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrKeyImmutable,
	}
}

func NewMissingKeyError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrMissingKey,
	}
}

func NewInvalidInputError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrInvalidInput,
	}
}

func NewUnknownAttributeError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrUnknownAttribute,
	}
}

func NewBadRequestError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrBadRequest,
	}
}

func NewUnauthorizedError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrUnauthorized,
	}
}

func NewNotFoundError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrNotFound,
	}
}

func NewConflictError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrConflict,
	}
}

func NewInternalError(msg string) error {
	return &myError{
		msg:    msg,
		target: ErrInternal,
	}
}

// NewErrorFromResponse maps a failed response from a resource API into one of the
// transport errors. Problem reports (RFC7807) contribute their detail to the message.
func NewErrorFromResponse(code int, contentType string, body []byte) error {
	report := &struct {
		Type   string `json:"type"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}{}

	msg := http.StatusText(code)

	if len(body) > 0 {
		if err := json.Unmarshal(body, report); err == nil && report.Detail != "" {
			msg = report.Detail
		}
	}

	switch code {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return NewBadRequestError(msg)
	case http.StatusUnauthorized, http.StatusForbidden:
		return NewUnauthorizedError(msg)
	case http.StatusNotFound, http.StatusGone:
		return NewNotFoundError(msg)
	case http.StatusConflict:
		return NewConflictError(msg)
	}

	return NewInternalError(
		fmt.Sprintf("[code: %d] request failed with content type \"%s\": %s", code, contentType, msg),
	)
}

// ProblemDetails stores details about a certain problem according to RFC7807
// See https://tools.ietf.org/html/rfc7807
type ProblemDetails struct {
	typ     string
	title   string
	detail  string
	code    int
	traceID string
}

const (
	// ProblemReportContentType as required by https://tools.ietf.org/html/rfc7807
	ProblemReportContentType string = "application/problem+json"
)

func NewBadRequest(detail, traceID string) *ProblemDetails {
	return &ProblemDetails{
		typ:     "about:blank#BadRequest",
		title:   "Bad Request",
		detail:  detail,
		code:    http.StatusBadRequest,
		traceID: traceID,
	}
}

func NewUnauthorized(detail, traceID string) *ProblemDetails {
	return &ProblemDetails{
		typ:     "about:blank#Unauthorized",
		title:   "Unauthorized",
		detail:  detail,
		code:    http.StatusUnauthorized,
		traceID: traceID,
	}
}

func NewNotFound(detail, traceID string) *ProblemDetails {
	return &ProblemDetails{
		typ:     "about:blank#NotFound",
		title:   "Not Found",
		detail:  detail,
		code:    http.StatusNotFound,
		traceID: traceID,
	}
}

func NewConflict(detail, traceID string) *ProblemDetails {
	return &ProblemDetails{
		typ:     "about:blank#Conflict",
		title:   "Conflict",
		detail:  detail,
		code:    http.StatusConflict,
		traceID: traceID,
	}
}

func NewInternal(detail, traceID string) *ProblemDetails {
	return &ProblemDetails{
		typ:     "about:blank#InternalError",
		title:   "Internal Error",
		detail:  detail,
		code:    http.StatusInternalServerError,
		traceID: traceID,
	}
}

// ReportError writes a problem report matching the kind of the supplied error
func ReportError(w http.ResponseWriter, err error, traceID string) {
	var pd *ProblemDetails

	switch {
	case errors.Is(err, ErrNotFound):
		pd = NewNotFound(err.Error(), traceID)
	case errors.Is(err, ErrUnauthorized):
		pd = NewUnauthorized(err.Error(), traceID)
	case errors.Is(err, ErrConflict), errors.Is(err, ErrKeyImmutable):
		pd = NewConflict(err.Error(), traceID)
	case errors.Is(err, ErrBadRequest), errors.Is(err, ErrInvalidInput):
		pd = NewBadRequest(err.Error(), traceID)
	default:
		pd = NewInternal(err.Error(), traceID)
	}

	pd.WriteResponse(w)
}

func (p *ProblemDetails) Detail() string {
	return p.detail
}

// MarshalJSON is called when a ProblemDetails instance should be serialized to JSON
func (p *ProblemDetails) MarshalJSON() ([]byte, error) {
	var traceID *string

	if p.traceID != "" {
		traceID = &p.traceID
	}

	return json.Marshal(struct {
		Type    string  `json:"type"`
		Title   string  `json:"title"`
		Detail  string  `json:"detail"`
		TraceID *string `json:"traceID,omitempty"`
	}{
		Type:    p.typ,
		Title:   p.title,
		Detail:  p.detail,
		TraceID: traceID,
	})
}

// ResponseCode returns the HTTP response code to be used when returning a specific problem
func (p *ProblemDetails) ResponseCode() int {
	if p.code != 0 {
		return p.code
	}

	return http.StatusBadRequest
}

// WriteResponse writes the contents of this instance to a http.ResponseWriter
func (p *ProblemDetails) WriteResponse(w http.ResponseWriter) {
	w.Header().Add("Content-Type", ProblemReportContentType)
	w.Header().Add("Content-Language", "en")
	w.WriteHeader(p.ResponseCode())

	pdbytes, err := json.MarshalIndent(p, "", "  ")
	if err == nil {
		w.Write(pdbytes)
	}
}
