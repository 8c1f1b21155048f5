package record

import (
	"errors"
	"fmt"
	"strings"
)

// Collection names double as table names, directory names and key prefixes.
const (
	CollectionInterviews = "interviews"
	CollectionSurveys    = "surveys"
)

// Survey type tags. Anything that is not TypeCustomer is listed as an employee survey.
const (
	TypeCustomer = "customer"
	TypeEmployee = "employee"
)

var (
	// ErrInvalidInput is returned when a required field is missing or malformed.
	ErrInvalidInput = errors.New("invalid data format")
	// ErrNotFound is returned by repository lookups for unknown identifiers.
	ErrNotFound = errors.New("record not found")
)

// Record is a caller-supplied JSON object. Only the "id" field is interpreted.
type Record map[string]any

// ID returns the record identifier when it is present and a string.
func (r Record) ID() (string, bool) {
	v, ok := r["id"]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// StoredSurvey is a survey payload together with the type tag it was saved under.
type StoredSurvey struct {
	Type    string
	Payload Record
}

// Listing is the survey listing partitioned by type tag.
type Listing struct {
	Customer   []Record `json:"customer"`
	Employee   []Record `json:"employee"`
	Interviews []Record `json:"interviews,omitempty"`
}

// StorageError wraps any fault raised by the persistence layer.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ValidKey reports whether id can be used as a storage key (filename, object key, row id).
func ValidKey(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, "/\\\x00")
}
