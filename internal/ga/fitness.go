package ga

import (
	"fleet-route-optimizer/internal/domain"
)

// Evaluator maps a visiting order to a fitness value.
// Implementations must be pure so that stale-only and parallel evaluation
// give the same results as evaluating everything sequentially.
type Evaluator interface {
	Evaluate(genes []int) float64
}

// EvaluatorFunc adapts a plain function to Evaluator.
type EvaluatorFunc func(genes []int) float64

func (f EvaluatorFunc) Evaluate(genes []int) float64 { return f(genes) }

// RouteEvaluator scores a visiting order by total Euclidean travel distance.
type RouteEvaluator struct {
	inst *domain.ProblemInstance
}

func NewRouteEvaluator(inst *domain.ProblemInstance) *RouteEvaluator {
	return &RouteEvaluator{inst: inst}
}

func (e *RouteEvaluator) Evaluate(genes []int) float64 {
	return RouteDistance(e.inst, genes)
}

// RouteDistance returns the distance of serving customers in the given order,
// starting and ending at the depot.
//
// The running load includes the next customer before the capacity check. When
// it overflows, the vehicle first returns to the depot and restarts carrying
// only that customer. A customer heavier than the capacity is still served as
// an overloaded single-customer leg.
func RouteDistance(inst *domain.ProblemInstance, genes []int) float64 {
	total := 0.0
	current := inst.Depot
	load := 0

	for _, idx := range genes {
		c := inst.Customers[idx]
		load += c.Demand
		if load > inst.Capacity {
			total += current.Distance(inst.Depot)
			current = inst.Depot
			load = c.Demand
		}

		total += current.Distance(c.Location)
		current = c.Location
	}

	return total + current.Distance(inst.Depot)
}

// DepotReturns counts the forced depot returns RouteDistance makes for genes,
// excluding the final return. An overflow on an empty vehicle is not a
// return: the vehicle is already at the depot.
func DepotReturns(inst *domain.ProblemInstance, genes []int) int {
	returns, load := 0, 0
	for _, idx := range genes {
		d := inst.Customers[idx].Demand
		load += d
		if load > inst.Capacity && load-d > 0 {
			returns++
			load = d
		}
	}
	return returns
}
