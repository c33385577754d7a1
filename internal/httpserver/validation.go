package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/mail"
	"strings"
)

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 1 << 20

var (
	errInvalidJSON  = errors.New("invalid JSON payload")
	errBodyTooLarge = errors.New("request body too large")
)

// validationError carries every field message collected for one payload.
type validationError struct {
	messages []string
}

func (e *validationError) Error() string {
	return strings.Join(e.messages, ", ")
}

// decodeBody reads a single JSON object into dst. An empty body leaves dst
// zeroed so the field checks report what is missing. Unknown fields are
// ignored; trailing data after the object is not.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return errBodyTooLarge
		case errors.Is(err, io.EOF):
			return nil
		}
		return errInvalidJSON
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errBodyTooLarge
		}
		return errInvalidJSON
	}
	return nil
}

type validator struct {
	messages []string
}

func (v *validator) add(field, problem string) {
	v.messages = append(v.messages, field+" "+problem)
}

func (v *validator) err() error {
	if len(v.messages) == 0 {
		return nil
	}
	return &validationError{messages: v.messages}
}

// readString decodes a raw field. present is false for absent and null
// values; isString is false when the value is some other JSON type.
func readString(raw json.RawMessage) (value string, present, isString bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false, false
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", true, false
	}
	return value, true, true
}

func (v *validator) requiredString(field string, raw json.RawMessage) string {
	value, present, isString := readString(raw)
	if !present || (isString && value == "") {
		v.add(field, "should not be empty")
	}
	if !isString {
		v.add(field, "must be a string")
	}
	return value
}

func (v *validator) requiredEmail(field string, raw json.RawMessage) string {
	value, present, isString := readString(raw)
	if !present || (isString && value == "") {
		v.add(field, "should not be empty")
	}
	if !isString || !isEmail(value) {
		v.add(field, "must be an email")
	}
	return value
}

func (v *validator) optionalString(field string, raw json.RawMessage) *string {
	value, present, isString := readString(raw)
	if !present {
		return nil
	}
	if !isString {
		v.add(field, "must be a string")
		return nil
	}
	return &value
}

func (v *validator) optionalEmail(field string, raw json.RawMessage) *string {
	value, present, isString := readString(raw)
	if !present {
		return nil
	}
	if !isString || !isEmail(value) {
		v.add(field, "must be an email")
		return nil
	}
	return &value
}

// isEmail accepts a bare addr-spec whose domain has at least one dot.
func isEmail(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return false
	}
	at := strings.LastIndex(value, "@")
	host := value[at+1:]
	return strings.Contains(host, ".") && !strings.HasPrefix(host, ".") && !strings.HasSuffix(host, ".")
}

type authPayload struct {
	Email     json.RawMessage `json:"email"`
	Password  json.RawMessage `json:"password"`
	FirstName json.RawMessage `json:"firstName"`
	LastName  json.RawMessage `json:"lastName"`
}

type userPatchPayload struct {
	Email     json.RawMessage `json:"email"`
	FirstName json.RawMessage `json:"firstName"`
	LastName  json.RawMessage `json:"lastName"`
}

type bookmarkPayload struct {
	Title       json.RawMessage `json:"title"`
	Link        json.RawMessage `json:"link"`
	Description json.RawMessage `json:"description"`
}
