package rendertree

// unknownStr is the string returned for unknown enum values.
const unknownStr = "Unknown"

// Kind identifies the variant held by a Node.
//
// The set of kinds is closed. The zero value is KindRoot, so a zero Node is a
// well-formed root marker.
type Kind uint8

const (
	// KindRoot marks the root of a render tree. It carries no payload.
	KindRoot Kind = iota

	// KindText is a run of text with font metadata.
	KindText
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "Root"
	case KindText:
		return "Text"
	default:
		return unknownStr
	}
}

// Kinds returns every defined kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindRoot, KindText}
}
