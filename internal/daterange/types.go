package daterange

import (
	"fmt"
	"time"
)

const (
	dateLayoutConstant                 = "2006-01-02"
	dateTimeLayoutConstant             = "2006-01-02 15:04"
	dayLabelLayoutConstant             = "2006-01-02 (Monday)"
	fromFieldNameConstant              = "from"
	toFieldNameConstant                = "to"
	formatErrorMessageTemplateConstant = "invalid %s date format: %s. Use YYYY-MM-DD or YYYY-MM-DD HH:MM format"
)

// Clock abstracts time-dependent functionality for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the standard library.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// Bound is one end of a date range.
type Bound struct {
	moment   time.Time
	hasClock bool
}

// NewDateBound builds a calendar-date bound at local midnight.
func NewDateBound(year int, month time.Month, day int, location *time.Location) Bound {
	return Bound{moment: time.Date(year, month, day, 0, 0, 0, 0, location)}
}

// Time returns the instant the bound represents.
func (bound Bound) Time() time.Time {
	return bound.moment
}

// HasClock reports whether the bound carries an explicit time of day.
func (bound Bound) HasClock() bool {
	return bound.hasClock
}

// String renders the bound as YYYY-MM-DD, or YYYY-MM-DD HH:MM when a time of day was given.
func (bound Bound) String() string {
	if bound.hasClock {
		return bound.moment.Format(dateTimeLayoutConstant)
	}
	return bound.moment.Format(dateLayoutConstant)
}

// Range is the commit window. A nil From is unbounded; a nil To means until now.
type Range struct {
	From *Bound
	To   *Bound
}

// Since returns the lower bound instant, if any.
func (dateRange Range) Since() (time.Time, bool) {
	if dateRange.From == nil {
		return time.Time{}, false
	}
	return dateRange.From.Time(), true
}

// Until returns the upper bound instant, if any.
func (dateRange Range) Until() (time.Time, bool) {
	if dateRange.To == nil {
		return time.Time{}, false
	}
	return dateRange.To.Time(), true
}

// FormatError reports an explicit date that matches neither accepted layout.
type FormatError struct {
	FieldName string
	Value     string
}

// Error describes the malformed date.
func (formatError FormatError) Error() string {
	return fmt.Sprintf(formatErrorMessageTemplateConstant, formatError.FieldName, formatError.Value)
}
