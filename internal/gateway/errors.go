package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind is the closed set of remote failure categories the application
// branches its recovery behavior on: force logout, guided schema repair,
// policy remediation, inline validation, or rollback-and-retry-manually.
type Kind int

const (
	KindTransient Kind = iota
	KindAuth
	KindSchema
	KindPolicy
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindSchema:
		return "schema"
	case KindPolicy:
		return "policy"
	case KindValidation:
		return "validation"
	default:
		return "transient"
	}
}

// Error is a classified remote failure. Code keeps the raw remote error code
// (SQLSTATE or PostgREST code) for remediation lookup.
type Error struct {
	Kind    Kind
	Code    string
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("remote store: %s (%s): %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("remote store: %s: %s", e.Kind, e.Message)
}

// KindOf extracts the failure kind from a wrapped error chain. Anything that
// is not a gateway error counts as transient.
func KindOf(err error) Kind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindTransient
}

// AsError returns the gateway error in the chain, or nil.
func AsError(err error) *Error {
	var ge *Error
	if errors.As(err, &ge) {
		return ge
	}
	return nil
}

// remoteError is the loose shape both the auth and rest endpoints return.
// Fields are all optional and names vary between them.
type remoteError struct {
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	ErrorField       string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Code             any    `json:"code"`
	Details          string `json:"details"`
	Hint             string `json:"hint"`
}

func decodeError(status int, body []byte) *Error {
	var re remoteError
	message := strings.TrimSpace(string(body))
	code := ""
	if err := json.Unmarshal(body, &re); err == nil {
		for _, m := range []string{re.Message, re.Msg, re.ErrorDescription, re.ErrorField} {
			if m != "" {
				message = m
				break
			}
		}
		if re.Details != "" {
			message += " " + re.Details
		}
		code = fmt.Sprint(re.Code)
		if code == "<nil>" {
			code = ""
		}
	}
	if message == "" {
		message = "Une erreur inattendue est survenue."
	}

	return &Error{
		Kind:    classify(status, code, message),
		Code:    code,
		Status:  status,
		Message: message,
	}
}

// classify maps a remote failure onto the closed kind set. The string checks
// mirror what the remote store actually emits; schema detection must win over
// the blunt status-code checks because a missing column also comes back as a
// 400.
func classify(status int, code, message string) Kind {
	lower := strings.ToLower(message)

	switch code {
	case "42703", "PGRST200", "PGRST204", "42P01":
		return KindSchema
	case "42501":
		return KindPolicy
	case "23505", "23502", "23514":
		return KindValidation
	}
	if strings.Contains(lower, "schema cache") ||
		strings.Contains(lower, "does not exist") ||
		(strings.Contains(lower, "column") && strings.Contains(lower, "relation")) ||
		strings.Contains(lower, "could not find a relationship") {
		return KindSchema
	}
	if strings.Contains(lower, "security policy") || strings.Contains(lower, "is_admin") {
		return KindPolicy
	}
	if status == 401 || strings.Contains(lower, "jwt") || strings.Contains(lower, "invalid login credentials") ||
		strings.Contains(lower, "refresh token") {
		return KindAuth
	}
	if status == 403 {
		return KindPolicy
	}
	if status == 422 || status == 400 {
		return KindValidation
	}
	return KindTransient
}

const fallbackMessage = "Une erreur inattendue et non-sérialisable est survenue."

// MessageOf converts an arbitrary error value into something presentable.
// Remote errors arrive as strings, structured objects, or things that do not
// serialize at all; never show the user an opaque object.
func MessageOf(v any) string {
	switch val := v.(type) {
	case nil:
		return fallbackMessage
	case string:
		return val
	case error:
		return val.Error()
	}
	if m, ok := v.(interface{ GetMessage() string }); ok {
		return m.GetMessage()
	}
	if data, err := json.Marshal(v); err == nil {
		var obj map[string]any
		if json.Unmarshal(data, &obj) == nil {
			if msg, ok := obj["message"].(string); ok && msg != "" {
				return msg
			}
		}
		if s := string(data); s != "" && s != "null" && s != "{}" {
			return s
		}
		return fallbackMessage
	}
	return fallbackMessage
}
