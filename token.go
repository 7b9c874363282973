package tio

import "fmt"

// Token is an opaque, caller-chosen identifier echoed back in every
// Event produced by the source it was registered with. tio never
// interprets the value.
type Token uint64

// String implements fmt.Stringer for debugging and log fields.
func (t Token) String() string {
	return fmt.Sprintf("token(%d)", uint64(t))
}
