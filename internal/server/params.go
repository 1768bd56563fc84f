package server

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/desertthunder/tunebox/internal/shared"
)

// MaxBodyBytes caps request bodies read by [ParseParams].
const MaxBodyBytes = 1 << 20

// Params holds request parameters merged from the query string and the body.
type Params map[string]string

// ParseParams reads query parameters, then POST form or JSON object fields over them.
//
// A malformed query string or body fails with [shared.ErrInvalidInput].
func ParseParams(r *http.Request) (Params, error) {
	query, err := url.ParseQuery(r.URL.RawQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed query string: %v", shared.ErrInvalidInput, err)
	}

	params := Params{}
	for key, values := range query {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	if r.Method != http.MethodPost || r.Body == nil {
		return params, nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	r.Body = http.MaxBytesReader(nil, r.Body, MaxBodyBytes)

	switch mediaType {
	case "application/json":
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("%w: malformed JSON body: %v", shared.ErrInvalidInput, err)
		}
		for key, value := range body {
			if s, ok := jsonString(value); ok {
				params[key] = s
			}
		}
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: malformed form body: %v", shared.ErrInvalidInput, err)
		}
		for key, values := range r.PostForm {
			if len(values) > 0 {
				params[key] = values[0]
			}
		}
	case "multipart/form-data":
		if err := r.ParseMultipartForm(MaxBodyBytes); err != nil {
			return nil, fmt.Errorf("%w: malformed form body: %v", shared.ErrInvalidInput, err)
		}
		for key, values := range r.MultipartForm.Value {
			if len(values) > 0 {
				params[key] = values[0]
			}
		}
	}

	return params, nil
}

func jsonString(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", false
		}
		return string(data), true
	}
}

// String returns the trimmed value for key.
func (p Params) String(key string) string {
	return strings.TrimSpace(p[key])
}

// Require returns the trimmed value for key or [shared.ErrMissingArgument].
func (p Params) Require(key string) (string, error) {
	v := p.String(key)
	if v == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, key)
	}
	return v, nil
}

// Bool reports whether key holds a truthy value (1, true, yes, on).
func (p Params) Bool(key string) bool {
	switch strings.ToLower(p.String(key)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// Int parses key as an integer, returning fallback when absent.
func (p Params) Int(key string, fallback int) (int, error) {
	v := p.String(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", shared.ErrInvalidArgument, key)
	}
	return n, nil
}
