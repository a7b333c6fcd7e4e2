// Package numeric parses integer and float literal spellings and checks
// whether a literal value fits a fixed-width integer.
package numeric

import (
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// Regex pattern components for number formats
const (
	HexDigits = `[0-9a-fA-F]`
	HexNumber = `0[xX]` + HexDigits + `(?:` + HexDigits + `|_` + HexDigits + `)*`

	OctDigits = `[0-7]`
	OctNumber = `0[oO]` + OctDigits + `(?:` + OctDigits + `|_` + OctDigits + `)*`

	BinDigits = `[01]`
	BinNumber = `0[bB]` + BinDigits + `(?:` + BinDigits + `|_` + BinDigits + `)*`

	DecDigits = `[0-9]`
	DecNumber = DecDigits + `(?:` + DecDigits + `|_` + DecDigits + `)*`

	FloatFrac = `\.` + DecDigits + `(?:` + DecDigits + `|_` + DecDigits + `)*`
	FloatExp  = `[eE][+-]?` + DecDigits + `(?:` + DecDigits + `|_` + DecDigits + `)*`
)

var (
	integerRegex = regexp.MustCompile(`^-?(?:` + HexNumber + `|` + OctNumber + `|` + BinNumber + `|` + DecNumber + `)$`)
	floatRegex   = regexp.MustCompile(`^-?` + DecNumber + `(?:` + FloatFrac + `(?:` + FloatExp + `)?|` + FloatExp + `)$`)
)

// IsInteger checks if the string is a decimal, hex, octal or binary integer
func IsInteger(s string) bool {
	return integerRegex.MatchString(s)
}

// IsFloat checks if the string has a fraction or an exponent
func IsFloat(s string) bool {
	return floatRegex.MatchString(s)
}

// ParseInteger returns the exact value of an integer literal.
func ParseInteger(s string) (*big.Int, error) {
	if !IsInteger(s) {
		return nil, fmt.Errorf("invalid integer literal %q", s)
	}
	neg := strings.HasPrefix(s, "-")
	digits := strings.ReplaceAll(strings.TrimPrefix(s, "-"), "_", "")

	base := 10
	if len(digits) > 2 && digits[0] == '0' {
		switch digits[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 10 {
			digits = digits[2:]
		}
	}

	v, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, fmt.Errorf("invalid integer literal %q", s)
	}
	if neg {
		v.Neg(v)
	}
	return v, nil
}

// ParseFloat returns the value of a float literal.
func ParseFloat(s string) (float64, error) {
	if !IsFloat(s) && !IsInteger(s) {
		return 0, fmt.Errorf("invalid float literal %q", s)
	}
	return strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64)
}

// FitsInteger reports whether v is representable in an integer of the given width.
func FitsInteger(v *big.Int, bits uint16, signed bool) bool {
	if bits == 0 {
		return false
	}
	var lo, hi *big.Int
	if signed {
		hi = new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
		lo = new(big.Int).Neg(hi)
		hi.Sub(hi, big.NewInt(1))
	} else {
		lo = big.NewInt(0)
		hi = new(big.Int).Lsh(big.NewInt(1), uint(bits))
		hi.Sub(hi, big.NewInt(1))
	}
	return v.Cmp(lo) >= 0 && v.Cmp(hi) <= 0
}
