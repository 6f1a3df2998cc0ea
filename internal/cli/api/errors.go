package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrAuthExpired — сессия больше недействительна: обновление токена отклонено
	// либо запрос получил 401 повторно после успешного обновления.
	ErrAuthExpired = errors.New("authentication expired")
	// ErrRefreshUnavailable — эндпоинт обновления недоступен (сеть или 5xx); сессия сохранена.
	ErrRefreshUnavailable = errors.New("token refresh unavailable")
	// ErrNetwork matches every *NetworkError via errors.Is.
	ErrNetwork = errors.New("network failure")
)

// NetworkError is a transport-level failure: no HTTP response was received.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// ErrorKind classifies non-2xx responses.
type ErrorKind int

const (
	KindValidation ErrorKind = iota + 1
	KindServer
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// APIError — ответ сервера с кодом вне 2xx.
type APIError struct {
	StatusCode int
	Message    string
	// Fields содержит ошибки валидации по полям, если сервер их вернул.
	Fields map[string][]string
	Body   []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

func (e *APIError) Kind() ErrorKind {
	if e.StatusCode >= http.StatusInternalServerError {
		return KindServer
	}
	return KindValidation
}

// IsValidation reports whether err carries a 4xx APIError.
func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind() == KindValidation
}

// IsServer reports whether err carries a 5xx APIError.
func IsServer(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind() == KindServer
}

// CheckResponse returns nil for 2xx responses and an *APIError otherwise.
func CheckResponse(resp *Response) error {
	if resp.OK() {
		return nil
	}
	return newAPIError(resp)
}

func newAPIError(resp *Response) *APIError {
	e := &APIError{StatusCode: resp.StatusCode, Body: resp.Body}
	e.Message, e.Fields = parseErrorBody(resp.Body)
	if e.Message == "" {
		e.Message = strings.ToLower(http.StatusText(resp.StatusCode))
	}
	return e
}

// parseErrorBody понимает {"error": "..."}, {"detail": "..."} и карту ошибок по полям
// {"field": ["msg", ...]}.
func parseErrorBody(body []byte) (string, map[string][]string) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return strings.TrimSpace(string(body)), nil
	}
	for _, k := range []string{"error", "detail", "message"} {
		var s string
		if v, ok := raw[k]; ok && json.Unmarshal(v, &s) == nil && s != "" {
			return s, nil
		}
	}
	fields := map[string][]string{}
	for k, v := range raw {
		var list []string
		if json.Unmarshal(v, &list) == nil && len(list) > 0 {
			fields[k] = list
			continue
		}
		var s string
		if json.Unmarshal(v, &s) == nil && s != "" {
			fields[k] = []string{s}
		}
	}
	if len(fields) == 0 {
		return "", nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(fields[k], "; "))
	}
	return strings.Join(parts, ", "), fields
}
