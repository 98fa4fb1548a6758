package enums

import "fmt"

// SizeUnit defines the unit attached to a product's package size.
type SizeUnit string

const (
	SizeUnitGram       SizeUnit = "g"
	SizeUnitKilogram   SizeUnit = "kg"
	SizeUnitMilliliter SizeUnit = "ml"
	SizeUnitLiter      SizeUnit = "l"
	SizeUnitOunce      SizeUnit = "oz"
	SizeUnitPound      SizeUnit = "lb"
	SizeUnitCount      SizeUnit = "count"
)

var validSizeUnits = []SizeUnit{
	SizeUnitGram,
	SizeUnitKilogram,
	SizeUnitMilliliter,
	SizeUnitLiter,
	SizeUnitOunce,
	SizeUnitPound,
	SizeUnitCount,
}

// String implements fmt.Stringer.
func (u SizeUnit) String() string {
	return string(u)
}

// IsValid reports whether the value matches a known SizeUnit.
func (u SizeUnit) IsValid() bool {
	for _, candidate := range validSizeUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseSizeUnit converts raw input into a SizeUnit.
func ParseSizeUnit(value string) (SizeUnit, error) {
	for _, candidate := range validSizeUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid size unit %q", value)
}
