package money

import (
	"fmt"
	"math/big"
	"strings"
)

const (
	// XRPDecimals is the scale of the native currency: 1 XRP = 10^6 drops.
	XRPDecimals = 6

	// IssuedDecimals is the parsing scale used for issued-currency values.
	// XRPL issued amounts carry at most 15 significant decimal digits.
	IssuedDecimals = 15
)

// ToBaseUnits converts a human-readable decimal string to base units.
// "1.5" with 6 decimals → 1500000. String manipulation only, no floats.
func ToBaseUnits(amountStr string, decimals int) (*big.Int, error) {
	if amountStr == "" {
		return nil, fmt.Errorf("amount is required")
	}

	neg := strings.HasPrefix(amountStr, "-")
	amountStr = strings.TrimPrefix(amountStr, "-")

	parts := strings.Split(amountStr, ".")
	if len(parts) > 2 {
		return nil, fmt.Errorf("invalid amount format")
	}

	intPart := parts[0]
	if intPart == "" {
		intPart = "0"
	}

	decPart := ""
	if len(parts) > 1 {
		decPart = parts[1]
	}

	if len(decPart) < decimals {
		decPart = decPart + strings.Repeat("0", decimals-len(decPart))
	} else if len(decPart) > decimals {
		decPart = decPart[:decimals]
	}

	combined := strings.TrimLeft(intPart+decPart, "0")
	if combined == "" {
		combined = "0"
	}

	result := new(big.Int)
	if _, ok := result.SetString(combined, 10); !ok {
		return nil, fmt.Errorf("invalid amount format")
	}
	if neg {
		result.Neg(result)
	}

	return result, nil
}

// FromBaseUnits converts base units to a human-readable decimal string.
// 1500000 with 6 decimals → "1.5".
func FromBaseUnits(amount *big.Int, decimals int) string {
	if amount == nil {
		return "0"
	}

	neg := amount.Sign() < 0
	str := new(big.Int).Abs(amount).String()
	if decimals > 0 {
		for len(str) <= decimals {
			str = "0" + str
		}
		pos := len(str) - decimals
		str = str[:pos] + "." + str[pos:]
		str = strings.TrimRight(str, "0")
		str = strings.TrimRight(str, ".")
	}
	if str == "" {
		str = "0"
	}
	if neg && str != "0" {
		str = "-" + str
	}
	return str
}

// XRPToDrops converts an XRP decimal string to drops.
func XRPToDrops(xrp string) (*big.Int, error) {
	return ToBaseUnits(xrp, XRPDecimals)
}

// DropsToXRP renders a drops value as an XRP decimal string.
func DropsToXRP(drops *big.Int) string {
	return FromBaseUnits(drops, XRPDecimals)
}

// ParseDrops parses a drops integer string as returned by rippled.
func ParseDrops(s string) (*big.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("drops value is required")
	}
	n := new(big.Int)
	if _, ok := n.SetString(s, 10); !ok {
		return nil, fmt.Errorf("invalid drops value: %q", s)
	}
	return n, nil
}

// DropsFloat converts a drops value to XRP major units as a float64.
// Display only; never use the result for ledger math.
func DropsFloat(drops *big.Int) float64 {
	if drops == nil {
		return 0
	}
	f, _ := new(big.Float).Quo(
		new(big.Float).SetInt(drops),
		big.NewFloat(1e6),
	).Float64()
	return f
}
