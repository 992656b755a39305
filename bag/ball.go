package bag

// Ball is the color of a ball. A ball has no identity beyond its color.
type Ball uint8

const (
	Black Ball = iota
	White
)

// NumColors is the number of distinct ball colors.
const NumColors = 2

// Colors lists every color in reporting order.
var Colors = [NumColors]Ball{Black, White}

func (b Ball) String() string {
	switch b {
	case Black:
		return "BLACK"
	case White:
		return "WHITE"
	}
	return "UNKNOWN"
}

// Valid returns whether b is one of the known colors.
func (b Ball) Valid() bool {
	return b < NumColors
}
