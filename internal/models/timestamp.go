package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Timestamp normalizes the timestamp shapes that arrive from clients
// (RFC3339 strings, epoch seconds, epoch milliseconds) into one value type
// at the serialization boundary. It always renders as RFC3339 UTC.
type Timestamp struct {
	time.Time
}

// NewTimestamp is the canonical constructor.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

// ParseTimestamp accepts an RFC3339 string or a numeric epoch value.
// Epoch values above 1e12 are treated as milliseconds.
func ParseTimestamp(raw string) (Timestamp, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Timestamp{}, fmt.Errorf("timestamp: empty value")
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return NewTimestamp(t), nil
	}

	epoch, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Timestamp{}, fmt.Errorf("timestamp: unrecognized value %q", raw)
	}
	if epoch > 1e12 {
		epoch /= 1000
	}
	sec := int64(epoch)
	nsec := int64((epoch - float64(sec)) * float64(time.Second))
	return NewTimestamp(time.Unix(sec, nsec)), nil
}

// Format renders the canonical wire representation.
func (t Timestamp) Format() string {
	return t.UTC().Format(time.RFC3339)
}

// MarshalJSON renders RFC3339 UTC.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format())
}

// UnmarshalJSON accepts a JSON string or number in any supported shape.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "null" {
		return nil
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value implements driver.Valuer for sqlx writes.
func (t Timestamp) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.UTC(), nil
}

// Scan implements sql.Scanner for sqlx reads.
func (t *Timestamp) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = Timestamp{}
		return nil
	case time.Time:
		*t = NewTimestamp(v)
		return nil
	case []byte:
		parsed, err := ParseTimestamp(string(v))
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	case string:
		parsed, err := ParseTimestamp(v)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	default:
		return fmt.Errorf("timestamp: cannot scan %T", src)
	}
}
