package ga

// HallOfFame keeps a value copy of the best individual seen during a run.
// Its lifetime is independent of the population it was fed from.
type HallOfFame struct {
	objective Objective
	best      Individual
	ok        bool
}

func NewHallOfFame(obj Objective) *HallOfFame {
	return &HallOfFame{objective: obj}
}

// Update replaces the incumbent with the first member that strictly improves
// on it. It reports whether the incumbent changed.
func (h *HallOfFame) Update(members []*Individual) bool {
	changed := false
	for _, ind := range members {
		if !ind.valid {
			continue
		}
		if !h.ok || h.objective.Better(ind.fitness, h.best.fitness) {
			h.best = *ind.Clone()
			h.ok = true
			changed = true
		}
	}
	return changed
}

// Best returns a copy of the incumbent, or false when nothing was recorded.
func (h *HallOfFame) Best() (Individual, bool) {
	if !h.ok {
		return Individual{}, false
	}
	return *h.best.Clone(), true
}

// Fitness returns the incumbent's fitness, or false when empty.
func (h *HallOfFame) Fitness() (float64, bool) {
	return h.best.fitness, h.ok
}
