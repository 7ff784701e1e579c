package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Rating is an aggregate star rating kept at one fractional digit.
type Rating float64

// MeanRating returns the mean of stars rounded half-up at the tenths place.
// The rounding is done on integers so 4.45 rounds to 4.5, not 4.4.
// ok is false for an empty input.
func MeanRating(stars []int) (r Rating, ok bool) {
	n := len(stars)
	if n == 0 {
		return 0, false
	}
	sum := 0
	for _, s := range stars {
		sum += s
	}
	tenths := (20*sum + n) / (2 * n)
	return Rating(float64(tenths) / 10), true
}

// RoundRating rounds an arbitrary float half-up to one decimal.
func RoundRating(v float64) Rating {
	return Rating(math.Floor(v*10+0.5) / 10)
}

func (r Rating) Float64() float64 { return float64(r) }

// String always renders one fractional digit: 4 -> "4.0".
func (r Rating) String() string {
	return strconv.FormatFloat(float64(r), 'f', 1, 64)
}

func (r Rating) MarshalJSON() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalJSON accepts numbers and numeric strings ("4.5"), which older
// clients stored.
func (r *Rating) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	s = strings.Trim(s, `"`)
	if s == "" || s == "null" {
		*r = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("rating %q: %w", s, err)
	}
	*r = RoundRating(f)
	return nil
}
