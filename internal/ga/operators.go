package ga

import "math/rand"

// Selector builds a new population of k members from pop.
// Returned members must not alias each other or pop.
type Selector interface {
	Select(rng *rand.Rand, pop []*Individual, k int, obj Objective) []*Individual
}

// Crossover recombines two genomes in place into two children.
type Crossover interface {
	Cross(rng *rand.Rand, a, b []int)
}

// Mutator alters one genome in place.
type Mutator interface {
	Mutate(rng *rand.Rand, genes []int)
}

// TournamentSelector picks, for every slot, the best of Size members sampled
// uniformly with replacement. Ties go to the first sampled.
type TournamentSelector struct {
	Size int
}

func (s TournamentSelector) Select(rng *rand.Rand, pop []*Individual, k int, obj Objective) []*Individual {
	out := make([]*Individual, k)
	for i := range out {
		best := pop[rng.Intn(len(pop))]
		for j := 1; j < s.Size; j++ {
			cand := pop[rng.Intn(len(pop))]
			if obj.Better(cand.fitness, best.fitness) {
				best = cand
			}
		}
		out[i] = best.Clone()
	}
	return out
}

// OrderedCrossover is the order crossover (OX) operator.
//
// Two distinct cut points a < b are drawn. The first child keeps a's genes in
// [a, b] and fills the remaining positions, starting after b and wrapping,
// with b's genes in b's order starting after b. The second child swaps roles.
// Not safe for concurrent use: it reuses scratch buffers.
type OrderedCrossover struct {
	c1, c2 []int
	placed []bool
}

func (x *OrderedCrossover) Cross(rng *rand.Rand, a, b []int) {
	n := len(a)
	if n < 2 || len(b) != n {
		return
	}

	lo := rng.Intn(n)
	hi := rng.Intn(n - 1)
	if hi >= lo {
		hi++
	}
	if lo > hi {
		lo, hi = hi, lo
	}

	if len(x.c1) != n {
		x.c1 = make([]int, n)
		x.c2 = make([]int, n)
		x.placed = make([]bool, n)
	}

	orderedChild(a, b, x.c1, lo, hi, x.placed)
	orderedChild(b, a, x.c2, lo, hi, x.placed)
	copy(a, x.c1)
	copy(b, x.c2)
}

// orderedChild writes into child the slice keep[lo..hi] and fills the rest
// from fill in its relative order.
func orderedChild(keep, fill, child []int, lo, hi int, placed []bool) {
	n := len(keep)
	for i := range placed {
		placed[i] = false
	}

	for i := lo; i <= hi; i++ {
		child[i] = keep[i]
		placed[keep[i]] = true
	}

	pos := (hi + 1) % n
	for i := 0; i < n; i++ {
		gene := fill[(hi+1+i)%n]
		if placed[gene] {
			continue
		}
		child[pos] = gene
		placed[gene] = true
		pos = (pos + 1) % n
	}
}

// ShuffleIndexesMutator swaps each position, with probability IndPB, with
// another uniformly chosen position.
type ShuffleIndexesMutator struct {
	IndPB float64
}

func (m ShuffleIndexesMutator) Mutate(rng *rand.Rand, genes []int) {
	n := len(genes)
	if n < 2 {
		return
	}
	for i := 0; i < n; i++ {
		if rng.Float64() < m.IndPB {
			j := rng.Intn(n - 1)
			if j >= i {
				j++
			}
			genes[i], genes[j] = genes[j], genes[i]
		}
	}
}

// vary applies crossover to consecutive pairs and then mutation to single
// members, each behind its own probability gate. Every touched member is
// invalidated, even when the operator happened to leave it unchanged.
func vary(
	rng *rand.Rand,
	members []*Individual,
	cx Crossover,
	mut Mutator,
	cxProb, mutProb float64,
) {
	for i := 1; i < len(members); i += 2 {
		if rng.Float64() < cxProb {
			cx.Cross(rng, members[i-1].Genes, members[i].Genes)
			members[i-1].Invalidate()
			members[i].Invalidate()
		}
	}

	for _, ind := range members {
		if rng.Float64() < mutProb {
			mut.Mutate(rng, ind.Genes)
			ind.Invalidate()
		}
	}
}
