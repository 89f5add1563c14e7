package ports

import (
	"fleet-route-optimizer/internal/domain"
	"io"
)

// Contract for drawing a visiting order as depot-to-depot trips.
type RouteRenderer interface {
	RenderRoute(w io.Writer, inst *domain.ProblemInstance, order []int, title string) error
}
