package types

import (
	"errors"
	"fmt"
)

// Timestamp encoding errors. Both indicate a configuration or clock fault in
// the process requesting an identifier and are typically fatal to issuance.
var (
	// ErrTimeBeforeEpoch is returned when encoding an instant that predates
	// the namespace epoch.
	ErrTimeBeforeEpoch = errors.New("time is before the namespace epoch")

	// ErrTimestampTooLarge is returned when the millisecond count since the
	// epoch does not fit in the 42-bit timestamp field.
	ErrTimestampTooLarge = errors.New("timestamp does not fit in the snowflake timestamp field")

	// ErrNonPositiveDuration is returned when constructing a PositiveDuration
	// from a zero or negative duration.
	ErrNonPositiveDuration = errors.New("duration is not positive")
)

// PartRangeError reports a snowflake part constructed from a value that
// exceeds its declared bit width. Construction fails rather than truncating
// silently.
type PartRangeError struct {
	Part  string
	Value uint64
	Max   uint64
}

func (e *PartRangeError) Error() string {
	return fmt.Sprintf("snowflake %s out of range: %d (max %d)", e.Part, e.Value, e.Max)
}
