package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// NanoDecimals is the number of raw digits in one NANO (1 NANO = 10^30 raw)
const NanoDecimals = 30

// maxBalanceBits is the width of a balance field in a state block
const maxBalanceBits = 128

// Unit is a denomination accepted by Convert
type Unit string

const (
	UnitNano Unit = "NANO"
	UnitRaw  Unit = "RAW"
)

// ErrInvalidAmount is returned for amounts that are not plain non-negative decimals
var ErrInvalidAmount = errors.New("invalid amount")

// ParseUnit parses a unit name, case-insensitive. XNO is an alias of NANO.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NANO", "XNO":
		return UnitNano, nil
	case "RAW":
		return UnitRaw, nil
	}
	return "", fmt.Errorf("unknown unit %q: use NANO or RAW", s)
}

// Convert converts amount between NANO and RAW without float precision loss.
// NANO amounts with more than 30 fractional digits are truncated toward zero.
func Convert(amount string, from, to Unit) (string, error) {
	switch {
	case from == UnitNano && to == UnitRaw:
		return ToRaw(amount)
	case from == UnitRaw && to == UnitNano:
		return FromRaw(amount)
	case from == UnitNano && to == UnitNano:
		raw, err := ToRaw(amount)
		if err != nil {
			return "", err
		}
		return FromRaw(raw)
	case from == UnitRaw && to == UnitRaw:
		return normalizeInteger(amount)
	}
	return "", fmt.Errorf("unsupported conversion %s -> %s", from, to)
}

// ToRaw converts NANO string to raw string
func ToRaw(nano string) (string, error) {
	return parseWithDecimals(nano, NanoDecimals)
}

// FromRaw converts raw string to canonical NANO string
func FromRaw(raw string) (string, error) {
	digits, err := normalizeInteger(raw)
	if err != nil {
		return "", err
	}
	return formatWithDecimals(digits, NanoDecimals), nil
}

// ParseRaw parses a raw decimal string into a balance-sized integer (< 2^128)
func ParseRaw(raw string) (*uint256.Int, error) {
	digits, err := normalizeInteger(raw)
	if err != nil {
		return nil, err
	}
	v, err := uint256.FromDecimal(digits)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	if v.BitLen() > maxBalanceBits {
		return nil, fmt.Errorf("%w: %s exceeds 128 bits", ErrInvalidAmount, raw)
	}
	return v, nil
}

// NanoToRaw parses a NANO string into raw units
func NanoToRaw(nano string) (*uint256.Int, error) {
	raw, err := ToRaw(nano)
	if err != nil {
		return nil, err
	}
	return ParseRaw(raw)
}

// RawToNano formats raw units as a canonical NANO string
func RawToNano(v *uint256.Int) string {
	return formatWithDecimals(v.Dec(), NanoDecimals)
}

// CompareAmounts compares two NANO decimal string amounts without float precision loss.
// Returns: -1 if a < b, 0 if a == b, 1 if a > b, and error if parsing fails
func CompareAmounts(a, b string) (int, error) {
	aVal, err := NanoToRaw(a)
	if err != nil {
		return 0, fmt.Errorf("failed to parse amount '%s': %w", a, err)
	}

	bVal, err := NanoToRaw(b)
	if err != nil {
		return 0, fmt.Errorf("failed to parse amount '%s': %w", b, err)
	}

	return aVal.Cmp(bVal), nil
}

// formatWithDecimals converts an integer digit string to a decimal string by
// inserting the decimal point, then drops trailing fractional zeros.
// Example: formatWithDecimals("24981836", 9) = "0.024981836"
func formatWithDecimals(digits string, decimals int) string {
	if digits == "0" {
		return "0"
	}

	// Pad with leading zeros if needed
	if len(digits) <= decimals {
		digits = strings.Repeat("0", decimals-len(digits)+1) + digits
	}

	pos := len(digits) - decimals
	whole, frac := digits[:pos], strings.TrimRight(digits[pos:], "0")
	if frac == "" {
		return whole
	}
	return whole + "." + frac
}

// parseWithDecimals converts a decimal string to an integer digit string by
// removing the decimal point. Extra fractional digits are truncated.
// Example: parseWithDecimals("0.024981836", 9) = "24981836"
func parseWithDecimals(s string, decimals int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty string", ErrInvalidAmount)
	}

	whole, frac, hasPoint := strings.Cut(s, ".")
	if !isDigits(whole) && whole != "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if hasPoint && !isDigits(frac) && frac != "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if whole == "" && frac == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	// Pad or truncate fractional part to exact decimals
	if len(frac) < decimals {
		frac += strings.Repeat("0", decimals-len(frac))
	} else if len(frac) > decimals {
		frac = frac[:decimals]
	}

	return trimLeadingZeros(whole + frac), nil
}

// normalizeInteger validates an unsigned integer string and strips leading zeros
func normalizeInteger(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !isDigits(s) {
		return "", fmt.Errorf("%w: %q is not a raw integer", ErrInvalidAmount, s)
	}
	return trimLeadingZeros(s), nil
}

func trimLeadingZeros(s string) string {
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "0"
	}
	return s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
