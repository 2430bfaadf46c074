package ntp

import (
	"errors"
	"fmt"
	"time"
)

const (
	EraLength     int64  = 4_294_967_296 // 2^32
	UnixEraOffset uint32 = 2_208_988_800 // 1970 - 1900 in seconds
)

var ErrEpochUnderflow = errors.New("timestamp predates the unix epoch")

// Timestamp is a 32.32 fixed-point count of seconds since 1900-01-01T00:00:00Z.
// Only era 0 is handled.
type Timestamp struct {
	Seconds  uint32
	Fraction uint32
}

// Time converts ts to a UTC time truncated to whole seconds. The fraction is
// dropped.
func (ts Timestamp) Time() (time.Time, error) {
	if ts.Seconds < UnixEraOffset {
		return time.Time{}, fmt.Errorf("%w: %d seconds", ErrEpochUnderflow, ts.Seconds)
	}
	return time.Unix(int64(ts.Seconds-UnixEraOffset), 0).UTC(), nil
}

// Nanoseconds converts the fraction to nanoseconds.
func (ts Timestamp) Nanoseconds() int64 {
	return int64(ts.Fraction) * 1e9 / EraLength
}

// TimeToTimestamp is the inverse of Timestamp.Time for times in era 0 at or
// after the unix epoch.
func TimeToTimestamp(t time.Time) Timestamp {
	return Timestamp{
		Seconds:  uint32(t.Unix() + int64(UnixEraOffset)),
		Fraction: uint32(int64(t.Nanosecond()) * EraLength / 1e9),
	}
}

// TransmitTime decodes the transmit timestamp of reply as a UTC time.
func TransmitTime(reply []byte) (time.Time, error) {
	ts, err := TransmitTimestamp(reply)
	if err != nil {
		return time.Time{}, err
	}
	return ts.Time()
}

// Decode decodes the transmit timestamp of reply and renders it with Format.
func Decode(reply []byte) (string, error) {
	t, err := TransmitTime(reply)
	if err != nil {
		return "", err
	}
	return Format(t), nil
}
