package common

import (
	"net/http"
	"strconv"
	"strings"

	"resq-relief/resq/internal/constants"
)

// QueryString returns the trimmed query parameter or "".
func QueryString(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// QueryBool parses an optional boolean query parameter. nil means absent.
func QueryBool(r *http.Request, key string) (*bool, error) {
	raw := QueryString(r, key)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, ValidationError("%s must be true or false", key)
	}
	return &b, nil
}

// QueryEnum parses an optional enum query parameter against allowed values.
func QueryEnum[T ~string](r *http.Request, key string, allowed []T) (T, error) {
	raw := QueryString(r, key)
	if raw == "" {
		return "", nil
	}
	v, err := constants.ParseEnum(key, raw, allowed)
	if err != nil {
		return "", ValidationError("%s", err.Error())
	}
	return v, nil
}

// ParseEnumField validates a body field against allowed values.
func ParseEnumField[T ~string](field, raw string, allowed []T) (T, error) {
	v, err := constants.ParseEnum(field, raw, allowed)
	if err != nil {
		return "", ValidationError("%s", err.Error())
	}
	return v, nil
}

// ParseEnumFieldOr is ParseEnumField with a fallback for an empty value.
func ParseEnumFieldOr[T ~string](field, raw string, allowed []T, fallback T) (T, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	return ParseEnumField(field, raw, allowed)
}
