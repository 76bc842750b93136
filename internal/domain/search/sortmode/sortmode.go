package sortmode

// Mode is the result ordering strategy.
type Mode string

// Sort mode constants.
const (
	// Composite blends semantic similarity with the indexed quality score.
	Composite Mode = "composite"
	// Latest orders by publish time, newest first.
	Latest Mode = "latest"
	// Bestseller orders by sales count.
	Bestseller Mode = "bestseller"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Composite || m == Latest || m == Bestseller
}
