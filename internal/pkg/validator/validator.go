package validator

import (
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

// IsValidMonth checks a "YYYY-MM" string.
func IsValidMonth(monthStr string) (time.Time, bool) {
	month, err := time.Parse("2006-01", monthStr)
	return month, err == nil
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}

// DateRange validates a start/end pair of YYYY-MM-DD strings and returns the parsed dates.
// Errors are reported against startField and endField.
func DateRange(start, end, startField, endField string) (time.Time, time.Time, ValidationErrors) {
	var errs ValidationErrors

	startDate, startOK := IsValidDate(start)
	if IsEmpty(start) {
		errs = append(errs, ValidationError{Field: startField, Message: startField + " is required"})
	} else if !startOK {
		errs = append(errs, ValidationError{Field: startField, Message: startField + " must be in YYYY-MM-DD format"})
	}

	endDate, endOK := IsValidDate(end)
	if IsEmpty(end) {
		errs = append(errs, ValidationError{Field: endField, Message: endField + " is required"})
	} else if !endOK {
		errs = append(errs, ValidationError{Field: endField, Message: endField + " must be in YYYY-MM-DD format"})
	}

	if startOK && endOK && startDate.After(endDate) {
		errs = append(errs, ValidationError{Field: endField, Message: endField + " must not be before " + startField})
	}

	return startDate, endDate, errs
}
