// Package ids provides the opaque 128-bit identifiers used for every
// entity instance in the engine (bids, bidders, auctions, log entries,
// workflow nodes).
package ids

import "github.com/google/uuid"

// Identifier is an opaque, globally unique 128-bit value.
type Identifier uuid.UUID

// Nil is the zero-value identifier, never returned by New.
var Nil Identifier

// New generates a fresh random identifier.
func New() Identifier {
	return Identifier(uuid.New())
}

// Parse decodes a canonical string form (e.g. from persisted state) into
// an Identifier.
func Parse(s string) (Identifier, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Nil, err
	}
	return Identifier(u), nil
}

// String renders the canonical hyphenated form.
func (id Identifier) String() string {
	return uuid.UUID(id).String()
}

// IsNil reports whether id is the zero value.
func (id Identifier) IsNil() bool {
	return id == Nil
}

// MarshalText implements encoding.TextMarshaler so Identifier round-trips
// through JSON as a plain string.
func (id Identifier) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *Identifier) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
