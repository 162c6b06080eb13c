package db

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

// Coordinate is a latitude or longitude, in fixed point decimal.
//
// The value is held as the count of micro-degrees, so it has exactly 6 fractional digits
// and at most 9 digits in total (= numeric(9, 6) in the database).
type Coordinate int64

const (
	// digits after the decimal point
	CoordinateScale = 6

	// digits in total
	CoordinatePrecision = 9
)

var (
	ErrMalformedCoordinate = errors.New("malformed decimal")

	ErrCoordinatePrecision   = errors.New("decimal exceeds precision")
	ErrTooManyFractionDigits = fmt.Errorf("%w: too many decimal places", ErrCoordinatePrecision)
	ErrTooManyIntegralDigits = fmt.Errorf("%w: too many digits before the decimal point", ErrCoordinatePrecision)
)

var (
	coordinateUnit  = big.NewRat(1_000_000, 1)
	coordinateLimit = big.NewInt(1_000_000_000) // 10^CoordinatePrecision micro-degrees

	// exponents are bounded so that big.Rat does not blow up.
	decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d{1,3})?$`)
)

// ParseCoordinate parses a decimal literal.
//
// # Args
//
// - s: decimal literal, like "30.3285", "-122.4194" or "4.88e1".
// Leading and trailing spaces are ignored.
//
// # Returns
//
// - Coordinate: parsed value.
//
// - error: ErrMalformedCoordinate if s is not a decimal literal.
// ErrTooManyFractionDigits or ErrTooManyIntegralDigits (both are ErrCoordinatePrecision)
// if the value cannot be represented in numeric(9, 6).
func ParseCoordinate(s string) (Coordinate, error) {
	s = strings.TrimSpace(s)
	if !decimalLiteral.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedCoordinate, s)
	}

	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMalformedCoordinate, s)
	}

	micro := new(big.Rat).Mul(r, coordinateUnit)
	if !micro.IsInt() {
		return 0, fmt.Errorf("%w: %q", ErrTooManyFractionDigits, s)
	}
	n := micro.Num()
	if new(big.Int).Abs(n).Cmp(coordinateLimit) >= 0 {
		return 0, fmt.Errorf("%w: %q", ErrTooManyIntegralDigits, s)
	}
	return Coordinate(n.Int64()), nil
}

// MustParseCoordinate is ParseCoordinate which panics on error.
//
// For literals in code and tests.
func MustParseCoordinate(s string) Coordinate {
	c, err := ParseCoordinate(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Coordinate) IsZero() bool {
	return c == 0
}

// String formats the coordinate with 6 fractional digits, like "30.328500".
func (c Coordinate) String() string {
	v := int64(c)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%06d", sign, v/1_000_000, v%1_000_000)
}

// MarshalJSON encodes the coordinate as a JSON number with 6 fractional digits.
func (c Coordinate) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts JSON numbers and strings containing decimal literals.
func (c *Coordinate) UnmarshalJSON(b []byte) error {
	lit := strings.Trim(string(b), `"`)
	v, err := ParseCoordinate(lit)
	if err != nil {
		return err
	}
	*c = v
	return nil
}
