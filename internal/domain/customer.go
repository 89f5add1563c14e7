package domain

// Represents a single delivery point served from the depot.
// A Customer is identified by its position in the instance (0..N-1)
// and is immutable once the instance is built.
type Customer struct {
	Index    int
	Location Coordinates
	Demand   int
}
