package enums

import "fmt"

// CheckoutState is the per-attempt reconciliation state. Only Cleared
// permits order submission.
type CheckoutState string

const (
	CheckoutStateIdle        CheckoutState = "idle"
	CheckoutStateReconciling CheckoutState = "reconciling"
	CheckoutStateBlocked     CheckoutState = "blocked"
	CheckoutStateCleared     CheckoutState = "cleared"
)

var validCheckoutStates = []CheckoutState{
	CheckoutStateIdle,
	CheckoutStateReconciling,
	CheckoutStateBlocked,
	CheckoutStateCleared,
}

// String implements fmt.Stringer.
func (c CheckoutState) String() string {
	return string(c)
}

// IsValid reports whether the value is known.
func (c CheckoutState) IsValid() bool {
	for _, candidate := range validCheckoutStates {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCheckoutState converts raw input into a CheckoutState.
func ParseCheckoutState(value string) (CheckoutState, error) {
	for _, candidate := range validCheckoutStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout state %q", value)
}
