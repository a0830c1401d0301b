// Package types provides the identifier primitives shared by every Stellwerk
// component: snowflake IDs, their bit-field parts, entity-typed wrappers, and
// the positive-duration value type used for credential expiry.
package types

import (
	"strconv"
	"time"
)

// Bit layout of a packed snowflake, most significant field first:
//
//	bits 63-22  timestamp  (milliseconds since the namespace epoch)
//	bits 21-17  worker id
//	bits 16-12  process id
//	bits 11-0   increment
//
// The layout is wire-visible and must never change.
const (
	TimestampBits   = 42
	TimestampOffset = 22
	TimestampMask   = ((uint64(1) << TimestampBits) - 1) << TimestampOffset

	WorkerIDBits   = 5
	WorkerIDOffset = 17
	WorkerIDMask   = ((uint64(1) << WorkerIDBits) - 1) << WorkerIDOffset

	ProcessIDBits   = 5
	ProcessIDOffset = 12
	ProcessIDMask   = ((uint64(1) << ProcessIDBits) - 1) << ProcessIDOffset

	IncrementBits   = 12
	IncrementOffset = 0
	IncrementMask   = (uint64(1) << IncrementBits) - 1
)

// Epoch anchors timestamp zero for one identifier namespace. Distinct
// namespaces may use distinct epochs; an Epoch is never mutated after
// definition. Decoding the timestamp field of a snowflake requires the same
// epoch that encoded it.
type Epoch struct {
	instant time.Time
}

// NewEpoch creates an epoch at the given instant, normalized to UTC.
func NewEpoch(t time.Time) Epoch {
	return Epoch{instant: t.UTC()}
}

// Instant returns the epoch's reference instant.
func (e Epoch) Instant() time.Time {
	return e.instant
}

// StellwerkEpoch is the deployed namespace epoch. Changing it breaks
// timestamp decoding of every previously issued identifier.
var StellwerkEpoch = NewEpoch(time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))

// Timestamp is the 42-bit milliseconds-since-epoch field of a snowflake.
type Timestamp uint64

// WorkerID identifies a physical or logical host (0-31).
type WorkerID uint8

// ProcessID identifies a process on a host (0-31).
type ProcessID uint8

// Increment is the per-millisecond sequence counter, wrapping modulo 4096.
type Increment uint16

// NewTimestamp range-checks a raw millisecond count against the field width.
func NewTimestamp(v uint64) (Timestamp, error) {
	if v >= 1<<TimestampBits {
		return 0, &PartRangeError{Part: "timestamp", Value: v, Max: 1<<TimestampBits - 1}
	}
	return Timestamp(v), nil
}

// NewWorkerID range-checks a worker id against the field width.
func NewWorkerID(v uint8) (WorkerID, error) {
	if v >= 1<<WorkerIDBits {
		return 0, &PartRangeError{Part: "worker id", Value: uint64(v), Max: 1<<WorkerIDBits - 1}
	}
	return WorkerID(v), nil
}

// NewProcessID range-checks a process id against the field width.
func NewProcessID(v uint8) (ProcessID, error) {
	if v >= 1<<ProcessIDBits {
		return 0, &PartRangeError{Part: "process id", Value: uint64(v), Max: 1<<ProcessIDBits - 1}
	}
	return ProcessID(v), nil
}

// NewIncrement range-checks an increment against the field width.
func NewIncrement(v uint16) (Increment, error) {
	if v >= 1<<IncrementBits {
		return 0, &PartRangeError{Part: "increment", Value: uint64(v), Max: 1<<IncrementBits - 1}
	}
	return Increment(v), nil
}

// MustTimestamp is for values already known to be in range. It panics on a
// range violation, which is a programmer error rather than a runtime
// condition.
func MustTimestamp(v uint64) Timestamp {
	ts, err := NewTimestamp(v)
	if err != nil {
		panic(err)
	}
	return ts
}

// MustWorkerID panics if v does not fit in the worker id field.
func MustWorkerID(v uint8) WorkerID {
	w, err := NewWorkerID(v)
	if err != nil {
		panic(err)
	}
	return w
}

// MustProcessID panics if v does not fit in the process id field.
func MustProcessID(v uint8) ProcessID {
	p, err := NewProcessID(v)
	if err != nil {
		panic(err)
	}
	return p
}

// MustIncrement panics if v does not fit in the increment field.
func MustIncrement(v uint16) Increment {
	i, err := NewIncrement(v)
	if err != nil {
		panic(err)
	}
	return i
}

// TimestampAt encodes an absolute instant as milliseconds since the epoch.
// Instants before the epoch and instants whose millisecond count does not fit
// in 42 bits (~139 years) are rejected; both indicate a configuration or
// clock fault, not bad input. Sub-millisecond precision is truncated.
func TimestampAt(t time.Time, epoch Epoch) (Timestamp, error) {
	millis := t.UnixMilli() - epoch.Instant().UnixMilli()
	if millis < 0 {
		return 0, ErrTimeBeforeEpoch
	}
	if uint64(millis) >= 1<<TimestampBits {
		return 0, ErrTimestampTooLarge
	}
	return Timestamp(millis), nil
}

// Time decodes the timestamp back to an absolute instant using the epoch that
// encoded it. The result is exact to the millisecond.
func (t Timestamp) Time(epoch Epoch) time.Time {
	return epoch.Instant().Add(time.Duration(t) * time.Millisecond)
}

// Millis returns the raw millisecond count since the namespace epoch.
func (t Timestamp) Millis() uint64 {
	return uint64(t)
}

// Next returns the increment that follows this one, wrapping after 4095.
// Wraparound is required behavior, not an error; collision avoidance across a
// wrap within one millisecond is the generator's concern.
func (i Increment) Next() Increment {
	return (i + 1) % (1 << IncrementBits)
}

// Snowflake is a 64-bit identifier packing timestamp, worker id, process id,
// and a sequence increment. Its wire form is the decimal string of the
// unsigned packed value.
type Snowflake uint64

// FromParts assembles a snowflake by shifting each field to its offset and
// OR-ing the results. No validation is needed: each part already carries a
// width-checked value, so the round-trip law holds for all legal inputs.
func FromParts(ts Timestamp, worker WorkerID, process ProcessID, inc Increment) Snowflake {
	return Snowflake(uint64(ts)<<TimestampOffset |
		uint64(worker)<<WorkerIDOffset |
		uint64(process)<<ProcessIDOffset |
		uint64(inc)<<IncrementOffset)
}

// Uint64 returns the raw packed value.
func (s Snowflake) Uint64() uint64 {
	return uint64(s)
}

// Timestamp extracts the timestamp field. Extraction masks and shifts, so the
// result is in range by construction and the conversion cannot fail.
func (s Snowflake) Timestamp() Timestamp {
	return Timestamp((uint64(s) & TimestampMask) >> TimestampOffset)
}

// WorkerID extracts the worker id field.
func (s Snowflake) WorkerID() WorkerID {
	return WorkerID((uint64(s) & WorkerIDMask) >> WorkerIDOffset)
}

// ProcessID extracts the process id field.
func (s Snowflake) ProcessID() ProcessID {
	return ProcessID((uint64(s) & ProcessIDMask) >> ProcessIDOffset)
}

// Increment extracts the increment field.
func (s Snowflake) Increment() Increment {
	return Increment((uint64(s) & IncrementMask) >> IncrementOffset)
}

// Parts unpacks all four fields at once.
func (s Snowflake) Parts() (Timestamp, WorkerID, ProcessID, Increment) {
	return s.Timestamp(), s.WorkerID(), s.ProcessID(), s.Increment()
}

// String renders the wire form: the decimal string of the packed value.
func (s Snowflake) String() string {
	return strconv.FormatUint(uint64(s), 10)
}

// ParseSnowflake parses the decimal wire form.
func ParseSnowflake(s string) (Snowflake, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return Snowflake(v), nil
}
