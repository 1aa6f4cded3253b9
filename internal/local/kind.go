package local

import "fmt"

// Kind classifies a candidate line. The set is closed; Precedence switches
// over every value so a new kind cannot be added without ranking it.
type Kind int

const (
	KindNone Kind = iota
	KindCheckboxTagged
	KindBareTagged
	KindCheckbox
	KindBare
)

// Precedence returns the rank of the kind. Lower wins.
func (k Kind) Precedence() int {
	switch k {
	case KindCheckboxTagged:
		return 1
	case KindBareTagged:
		return 2
	case KindCheckbox:
		return 3
	case KindBare:
		return 4
	case KindNone:
		return 0
	}
	panic("local: unknown kind")
}

func (k Kind) String() string {
	switch k {
	case KindCheckboxTagged:
		return "checkbox_na"
	case KindBareTagged:
		return "bare_na"
	case KindCheckbox:
		return "checkbox"
	case KindBare:
		return "bare"
	default:
		return ""
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	for _, c := range []Kind{KindCheckboxTagged, KindBareTagged, KindCheckbox, KindBare} {
		if c.String() == string(b) {
			*k = c
			return nil
		}
	}
	if len(b) == 0 {
		*k = KindNone
		return nil
	}
	return fmt.Errorf("%w: kind %q", ErrInvalid, b)
}
