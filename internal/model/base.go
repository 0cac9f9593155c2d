package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ID prefixes per collection.
const (
	PrefixUser        = "u"
	PrefixPatient     = "p"
	PrefixAppointment = "ap"
	PrefixMedication  = "m"
	PrefixFinance     = "f"
)

// NewID mints an opaque identifier such as "p_3f0c...". Uniqueness rests on
// the UUID; there is no counter.
func NewID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Quantity is a stock count that decodes from a JSON number, a numeric
// string, or nothing at all. Anything that does not start with digits reads
// as zero. It never goes below zero or above MaxQuantity.
type Quantity int

const MaxQuantity = Quantity(math.MaxInt)

// Add sums two counts, stopping at MaxQuantity instead of wrapping.
func (q Quantity) Add(n Quantity) Quantity {
	if n <= 0 {
		return q
	}
	if q > MaxQuantity-n {
		return MaxQuantity
	}
	return q + n
}

func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*q = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = ParseQuantity(s)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("quantity: %w", err)
	}
	switch {
	case f < 0 || math.IsNaN(f):
		*q = 0
	case f >= float64(MaxQuantity):
		*q = MaxQuantity
	default:
		*q = Quantity(int(f))
	}
	return nil
}

// ParseQuantity reads the leading integer of s, e.g. "12 boxes" is 12.
// Empty, non-numeric and negative inputs are 0; values too large for an int
// are MaxQuantity.
func ParseQuantity(s string) Quantity {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if errors.Is(err, strconv.ErrRange) {
		return MaxQuantity
	}
	if err != nil {
		return 0
	}
	return Quantity(n)
}

// Layouts accepted for appointment datetimes. The second is what a
// datetime-local input produces.
var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// ParseDateTime parses s with the accepted layouts; zone-less values are read
// in loc.
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized datetime %q", s)
}
