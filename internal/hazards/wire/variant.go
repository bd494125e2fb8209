package wire

import (
	"errors"
	"fmt"
	"strings"
)

// Variant selects one of the barbed-wire layouts.
type Variant uint8

const (
	VariantUnknown Variant = iota
	VariantTangled
	VariantSpiral
	VariantTripleConcertina
	VariantDoubleApron
)

// Variants lists every concrete layout in a stable order.
var Variants = []Variant{VariantTangled, VariantSpiral, VariantTripleConcertina, VariantDoubleApron}

// ErrUnknownVariant is returned by ParseVariant for unrecognised tags.
var ErrUnknownVariant = errors.New("unknown wire variant")

func (v Variant) String() string {
	switch v {
	case VariantTangled:
		return "tangled"
	case VariantSpiral:
		return "spiral"
	case VariantTripleConcertina:
		return "tripleConcertina"
	case VariantDoubleApron:
		return "doubleApron"
	case VariantUnknown:
		return "unknown"
	}
	return fmt.Sprintf("Variant(%d)", uint8(v))
}

// MarshalText encodes the variant tag.
func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText decodes a variant tag.
func (v *Variant) UnmarshalText(text []byte) error {
	parsed, err := ParseVariant(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ParseVariant maps a tag onto a Variant. Matching ignores case, dashes and
// underscores so "triple_concertina" and "tripleConcertina" agree.
func ParseVariant(tag string) (Variant, error) {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(tag)))
	switch key {
	case "tangled":
		return VariantTangled, nil
	case "spiral":
		return VariantSpiral, nil
	case "tripleconcertina", "concertina":
		return VariantTripleConcertina, nil
	case "doubleapron", "apron":
		return VariantDoubleApron, nil
	}
	return VariantUnknown, fmt.Errorf("%w: %q", ErrUnknownVariant, tag)
}
