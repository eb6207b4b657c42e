package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoIDReturned signals a success response missing an expected id. The
// catalog always returns an id on success, so this guards against a
// silently malformed response rather than a normal business failure.
var ErrNoIDReturned = errors.New("catalog returned no id for created object")

// APIError is one entry of a mutation payload's errors array.
type APIError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// MutationError wraps a non-empty errors array from a mutation payload.
// The serialized payload is kept in the message for diagnostics.
type MutationError struct {
	Operation string
	Errors    []APIError
}

func (e *MutationError) Error() string {
	payload, _ := json.Marshal(e.Errors)
	return fmt.Sprintf("catalog mutation %s failed: %s", e.Operation, payload)
}

// IsAlreadyExists reports whether err is a duplicate-object conflict, e.g.
// a product-type slug raced by a concurrent creator. Classification is by
// error code with a message fallback for backends that omit codes.
func IsAlreadyExists(err error) bool {
	var merr *MutationError
	if !errors.As(err, &merr) {
		return false
	}
	for _, e := range merr.Errors {
		switch e.Code {
		case "UNIQUE", "ALREADY_EXISTS", "DUPLICATED_INPUT_ITEM":
			return true
		}
		if strings.Contains(strings.ToLower(e.Message), "already exists") {
			return true
		}
	}
	return false
}
