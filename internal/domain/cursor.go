package domain

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrInvalidCursor is returned when a cursor is built from negative values
var ErrInvalidCursor = errors.New("invalid cursor")

// InvalidCursorError describes which cursor field failed validation
type InvalidCursorError struct {
	Field string
	Value int
}

func (e *InvalidCursorError) Error() string {
	return fmt.Sprintf("invalid cursor: %s must be non-negative, got %d", e.Field, e.Value)
}

func (e *InvalidCursorError) Is(target error) bool {
	return target == ErrInvalidCursor
}

// ForkPointer records which branch to follow at move number Te.
// Field order defines the JSON key order of the canonical cursor form.
type ForkPointer struct {
	Te        int `json:"te"`
	ForkIndex int `json:"forkIndex"`
}

// Cursor addresses one position in a branching record
type Cursor struct {
	Tesuu        int
	ForkPointers []ForkPointer
}

// NormalizeForkPointers returns pointers sorted by Te with one entry per Te.
// When the input repeats a Te, the later entry wins.
func NormalizeForkPointers(fps []ForkPointer) []ForkPointer {
	byTe := make(map[int]int, len(fps))
	for _, fp := range fps {
		byTe[fp.Te] = fp.ForkIndex
	}

	out := make([]ForkPointer, 0, len(byTe))
	for te, fx := range byTe {
		out = append(out, ForkPointer{Te: te, ForkIndex: fx})
	}
	slices.SortFunc(out, func(a, b ForkPointer) int {
		return cmp.Compare(a.Te, b.Te)
	})
	return out
}

// NewCursor validates and normalizes a cursor
func NewCursor(tesuu int, fps []ForkPointer) (Cursor, error) {
	if err := validateCursor(tesuu, fps); err != nil {
		return Cursor{}, err
	}
	return Cursor{Tesuu: tesuu, ForkPointers: NormalizeForkPointers(fps)}, nil
}

// MainLine returns the cursor for move tesuu along the main line
func MainLine(tesuu int) (Cursor, error) {
	return NewCursor(tesuu, nil)
}

func validateCursor(tesuu int, fps []ForkPointer) error {
	if tesuu < 0 {
		return &InvalidCursorError{Field: "tesuu", Value: tesuu}
	}
	for _, fp := range fps {
		if fp.Te < 0 {
			return &InvalidCursorError{Field: "te", Value: fp.Te}
		}
		if fp.ForkIndex < 0 {
			return &InvalidCursorError{Field: "forkIndex", Value: fp.ForkIndex}
		}
	}
	return nil
}

// SerializeCursor renders the canonical "{tesuu},{json}" form.
// The output is used as a cache key downstream, so this is the only
// place the grammar is defined.
func SerializeCursor(tesuu int, fps []ForkPointer) (string, error) {
	if err := validateCursor(tesuu, fps); err != nil {
		return "", err
	}
	return encodeCursor(tesuu, NormalizeForkPointers(fps)), nil
}

func encodeCursor(tesuu int, normalized []ForkPointer) string {
	// json.Marshal cannot fail for a slice of int-only structs
	data, _ := json.Marshal(normalized)
	return strconv.Itoa(tesuu) + "," + string(data)
}

// Validate reports whether the cursor holds only non-negative values.
// Cursors from NewCursor, ParseCursorKey and Tree.CursorOf always do.
func (c Cursor) Validate() error {
	return validateCursor(c.Tesuu, c.ForkPointers)
}

// Key returns the canonical string form of the cursor. It assumes a valid
// cursor; check struct literals with Validate or use SerializeCursor.
func (c Cursor) Key() string {
	return encodeCursor(c.Tesuu, NormalizeForkPointers(c.ForkPointers))
}

func (c Cursor) String() string {
	return c.Key()
}

// ForkIndexAt returns the branch chosen at move te, 0 for the main line
func (c Cursor) ForkIndexAt(te int) int {
	for _, fp := range c.ForkPointers {
		if fp.Te == te {
			return fp.ForkIndex
		}
	}
	return 0
}

// Equal reports whether both cursors have the same canonical form
func (c Cursor) Equal(other Cursor) bool {
	return c.Key() == other.Key()
}

// ParseCursorKey parses a canonical cursor key.
// Keys that are not in canonical form are rejected.
func ParseCursorKey(key string) (Cursor, error) {
	head, body, ok := strings.Cut(key, ",")
	if !ok {
		return Cursor{}, fmt.Errorf("parse cursor %q: missing separator", key)
	}

	tesuu, err := strconv.Atoi(head)
	if err != nil {
		return Cursor{}, fmt.Errorf("parse cursor %q: %w", key, err)
	}

	var fps []ForkPointer
	if err := json.Unmarshal([]byte(body), &fps); err != nil {
		return Cursor{}, fmt.Errorf("parse cursor %q: %w", key, err)
	}

	c, err := NewCursor(tesuu, fps)
	if err != nil {
		return Cursor{}, err
	}
	if c.Key() != key {
		return Cursor{}, fmt.Errorf("parse cursor %q: not in canonical form", key)
	}
	return c, nil
}
