package population

import (
	"encoding/json"
	"strconv"
)

// NoDataLabel is how an unknown count is rendered for people.
const NoDataLabel = "no data"

// Count is a population figure that may be unknown. The zero value is Unknown.
type Count struct {
	value int64
	known bool
}

// Known returns a known count of n.
func Known(n int64) Count {
	return Count{value: n, known: true}
}

// Unknown returns a count that carries no data.
func Unknown() Count {
	return Count{}
}

// CountFromPointer converts a nullable column value into a Count.
func CountFromPointer(n *int64) Count {
	if n == nil {
		return Unknown()
	}
	return Known(*n)
}

// Value returns the count and whether it is known.
func (c Count) Value() (int64, bool) {
	return c.value, c.known
}

// IsKnown reports whether the count carries data.
func (c Count) IsKnown() bool {
	return c.known
}

// Int64 returns the count, treating unknown as zero.
func (c Count) Int64() int64 {
	return c.value
}

// Add sums two counts the way SQL SUM treats NULLs: unknown only if both are unknown.
func (c Count) Add(other Count) Count {
	switch {
	case !c.known:
		return other
	case !other.known:
		return c
	default:
		return Known(c.value + other.value)
	}
}

// String renders the number, or NoDataLabel when unknown.
func (c Count) String() string {
	if !c.known {
		return NoDataLabel
	}
	return strconv.FormatInt(c.value, 10)
}

// MarshalJSON encodes an unknown count as null.
func (c Count) MarshalJSON() ([]byte, error) {
	if !c.known {
		return []byte("null"), nil
	}
	return json.Marshal(c.value)
}

// UnmarshalJSON decodes null as Unknown.
func (c *Count) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Unknown()
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = Known(n)
	return nil
}
