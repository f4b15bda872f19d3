package sessionstore

import (
	"encoding/json"
	"fmt"
	"maps"
	"time"
)

// ExpiresAtKey is the reserved field that carries the absolute expiration
// timestamp in the on-disk representation.
const ExpiresAtKey = "__expires_at__"

// Record is the in-memory form of a session: caller values plus the
// expiration time. The reserved key only exists at the encode/decode boundary.
type Record struct {
	Values    map[string]string
	ExpiresAt time.Time
}

// Stamp returns a copy of r expiring ttl after now.
// Any previous expiration is overwritten.
func (r Record) Stamp(now time.Time, ttl time.Duration) Record {
	return Record{
		Values:    cloneValues(r.Values),
		ExpiresAt: now.Add(ttl).UTC(),
	}
}

// IsExpired reports whether the record is expired at now.
// A zero ExpiresAt (missing or unparseable on disk) always counts as expired.
func (r Record) IsExpired(now time.Time) bool {
	if r.ExpiresAt.IsZero() {
		return true
	}
	return now.After(r.ExpiresAt)
}

// Expired parses a raw reserved-field value and reports whether it is expired at now.
// Unparseable values are expired.
func Expired(raw string, now time.Time) bool {
	exp, err := parseExpiresAt(raw)
	if err != nil {
		return true
	}
	return now.After(exp)
}

// Encode serializes the record to a flat JSON object of strings.
// A caller-supplied value under ExpiresAtKey is replaced by the record's expiration.
func Encode(r Record) ([]byte, error) {
	flat := make(map[string]string, len(r.Values)+1)
	for k, v := range r.Values {
		if k == ExpiresAtKey {
			continue
		}
		flat[k] = v
	}
	flat[ExpiresAtKey] = r.ExpiresAt.UTC().Format(time.RFC3339Nano)

	data, err := json.MarshalIndent(flat, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("sessionstore: encode record: %w", err)
	}
	return data, nil
}

// Decode parses data produced by Encode.
// It fails with ErrDeserialization when data is not a JSON object of strings.
// A missing or unparseable expiration decodes to a zero ExpiresAt.
func Decode(data []byte) (Record, error) {
	var flat map[string]string
	if err := json.Unmarshal(data, &flat); err != nil {
		return Record{}, fmt.Errorf("%w: %w", ErrDeserialization, err)
	}
	if flat == nil {
		// JSON "null" unmarshals without error
		return Record{}, fmt.Errorf("%w: not an object", ErrDeserialization)
	}

	r := Record{Values: make(map[string]string, len(flat))}
	for k, v := range flat {
		if k == ExpiresAtKey {
			if exp, err := parseExpiresAt(v); err == nil {
				r.ExpiresAt = exp
			}
			continue
		}
		r.Values[k] = v
	}
	return r, nil
}

func parseExpiresAt(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, raw)
}

func cloneValues(values map[string]string) map[string]string {
	if values == nil {
		return map[string]string{}
	}
	return maps.Clone(values)
}
