package message

import "fmt"

// Node is one decoded record: a mapping from field name to value.
//
// Values are drawn from the closed set documented in the package
// comment. A Node decoded from a buffer owns all of its nested values;
// nothing aliases the source bytes.
type Node map[string]any

// Enum is a decoded enum value: the raw numeric constant plus its
// resolved name. Unknown constants are preserved, not rejected; their
// Name is "unknown(N)".
type Enum struct {
	Value uint32
	Name  string
}

// UnknownEnumName formats the placeholder name for an enum constant the
// schema does not declare.
func UnknownEnumName(value uint32) string {
	return fmt.Sprintf("unknown(%d)", value)
}
