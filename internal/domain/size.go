package domain

// Size is the ordered size class shared by vehicles and spaces.
type Size int

const (
	SizeSmall  Size = 1
	SizeMedium Size = 2
	SizeLarge  Size = 3
)

// Fits reports whether a vehicle of this size may park in a space of
// spaceSize. Smaller vehicles fit larger spaces, never the reverse.
func (s Size) Fits(spaceSize Size) bool {
	return s <= spaceSize
}

// String returns the transport label for the size.
func (s Size) String() string {
	switch s {
	case SizeSmall:
		return "SMALL"
	case SizeMedium:
		return "MEDIUM"
	case SizeLarge:
		return "LARGE"
	default:
		return "UNKNOWN"
	}
}

// ParseSize converts a transport label back to a Size.
// Returns false if the label is not a known size.
func ParseSize(label string) (Size, bool) {
	switch label {
	case "SMALL":
		return SizeSmall, true
	case "MEDIUM":
		return SizeMedium, true
	case "LARGE":
		return SizeLarge, true
	default:
		return 0, false
	}
}
