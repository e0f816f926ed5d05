package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Domain errors. Validation errors carry messages suitable for direct
// display; ErrUnauthorized deliberately does not say whether the
// config was missing, had no credential, or the password was wrong.
var (
	ErrInvalidCustomID = errors.New("invalid custom ID: must be at least 5 characters using only letters, numbers, hyphens and underscores")
	ErrCustomIDTaken   = errors.New("custom ID is already in use")
	ErrUnauthorized    = errors.New("invalid credentials")
	ErrNotFound        = errors.New("survey configuration not found")
	ErrInactive        = errors.New("survey is no longer active")
	ErrEmptyImport     = errors.New("no valid questions found in CSV")
)

// DuplicateOrderError rejects a reconciliation batch that repeats
// order values before anything is written.
type DuplicateOrderError struct {
	Orders []int
}

func (e *DuplicateOrderError) Error() string {
	sorted := append([]int(nil), e.Orders...)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, o := range sorted {
		parts[i] = fmt.Sprint(o)
	}
	return "duplicate question orders in request: " + strings.Join(parts, ", ")
}
