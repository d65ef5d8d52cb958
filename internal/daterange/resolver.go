package daterange

import (
	"fmt"
	"strings"
	"time"
)

const (
	weekendQuestionTemplateConstant   = "Yesterday was %s. Collect commits starting from Friday %s? (y/n): "
	confirmationErrorTemplateConstant = "unable to confirm weekend start date: %w"
)

// Resolver computes the effective date range from optional configured bounds.
type Resolver struct {
	clock     Clock
	confirmer Confirmer
	location  *time.Location
}

// NewResolver constructs a Resolver. A nil clock uses the system clock and a nil location uses time.Local.
func NewResolver(clock Clock, confirmer Confirmer, location *time.Location) *Resolver {
	if clock == nil {
		clock = SystemClock{}
	}
	if location == nil {
		location = time.Local
	}
	return &Resolver{clock: clock, confirmer: confirmer, location: location}
}

// Resolve returns the range described by the explicit bounds, defaulting the start to yesterday.
// Interactive resolution asks the Confirmer whether a weekend yesterday should look back to Friday.
func (resolver *Resolver) Resolve(explicitFrom string, explicitTo string, interactive bool) (Range, error) {
	resolvedRange := Range{}

	if trimmedFrom := strings.TrimSpace(explicitFrom); len(trimmedFrom) > 0 {
		fromBound, parseError := ParseBound(fromFieldNameConstant, trimmedFrom, resolver.location)
		if parseError != nil {
			return Range{}, parseError
		}
		resolvedRange.From = &fromBound
	}

	if trimmedTo := strings.TrimSpace(explicitTo); len(trimmedTo) > 0 {
		toBound, parseError := ParseBound(toFieldNameConstant, trimmedTo, resolver.location)
		if parseError != nil {
			return Range{}, parseError
		}
		resolvedRange.To = &toBound
	}

	if resolvedRange.From != nil {
		return resolvedRange, nil
	}

	defaultStart, defaultError := resolver.defaultStart(interactive)
	if defaultError != nil {
		return Range{}, defaultError
	}
	resolvedRange.From = &defaultStart

	return resolvedRange, nil
}

func (resolver *Resolver) defaultStart(interactive bool) (Bound, error) {
	now := resolver.clock.Now().In(resolver.location)
	yesterday := NewDateBound(now.Year(), now.Month(), now.Day(), resolver.location)
	yesterday.moment = yesterday.moment.AddDate(0, 0, -1)

	if !IsWeekend(yesterday.moment.Weekday()) {
		return yesterday, nil
	}

	friday := Bound{moment: PrecedingFriday(yesterday.moment)}
	if !interactive || resolver.confirmer == nil {
		return friday, nil
	}

	question := fmt.Sprintf(
		weekendQuestionTemplateConstant,
		yesterday.moment.Format(dayLabelLayoutConstant),
		friday.moment.Format(dayLabelLayoutConstant),
	)
	confirmed, confirmationError := resolver.confirmer.Confirm(question)
	if confirmationError != nil {
		return Bound{}, fmt.Errorf(confirmationErrorTemplateConstant, confirmationError)
	}
	if confirmed {
		return friday, nil
	}
	return yesterday, nil
}

// ParseBound parses an explicit date in YYYY-MM-DD HH:MM or YYYY-MM-DD form.
func ParseBound(fieldName string, value string, location *time.Location) (Bound, error) {
	if location == nil {
		location = time.Local
	}
	if parsedMoment, parseError := time.ParseInLocation(dateTimeLayoutConstant, value, location); parseError == nil {
		return Bound{moment: parsedMoment, hasClock: true}, nil
	}
	if parsedMoment, parseError := time.ParseInLocation(dateLayoutConstant, value, location); parseError == nil {
		return Bound{moment: parsedMoment}, nil
	}
	return Bound{}, FormatError{FieldName: fieldName, Value: value}
}

// IsWeekend reports whether the weekday is Saturday or Sunday.
func IsWeekend(weekday time.Weekday) bool {
	return weekday == time.Saturday || weekday == time.Sunday
}

// PrecedingFriday walks back from day, inclusive, to the nearest Friday.
func PrecedingFriday(day time.Time) time.Time {
	friday := day
	for friday.Weekday() != time.Friday {
		friday = friday.AddDate(0, 0, -1)
	}
	return friday
}
