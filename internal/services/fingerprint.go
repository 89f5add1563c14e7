package services

import (
	"encoding/binary"
	"fleet-route-optimizer/internal/domain"
	"fleet-route-optimizer/internal/ga"
	"fmt"
	"hash"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint identifies the outcome of a run: equal instance data and equal
// configuration produce equal results. Name and Workers do not take part.
func Fingerprint(inst *domain.ProblemInstance, cfg ga.Config) string {
	h := hasher{d: xxhash.New()}
	h.instance(inst)

	h.i(int64(cfg.PopulationSize))
	h.i(int64(cfg.Generations))
	h.f(cfg.CrossoverProb)
	h.f(cfg.MutationProb)
	h.f(cfg.GeneMutationProb)
	h.i(int64(cfg.TournamentSize))
	h.i(cfg.Seed)
	h.i(int64(cfg.Objective))
	if cfg.StrictCapacity {
		h.i(1)
	} else {
		h.i(0)
	}

	return h.sum()
}

// InstanceFingerprint hashes the depot, capacity and customers of an
// instance. A stored run keeps it so that a later upsert of the same name
// is detected.
func InstanceFingerprint(inst *domain.ProblemInstance) string {
	h := hasher{d: xxhash.New()}
	h.instance(inst)
	return h.sum()
}

type hasher struct {
	d   hash.Hash64
	buf [8]byte
}

func (h *hasher) f(v float64) { h.i(int64(math.Float64bits(v))) }

func (h *hasher) i(v int64) {
	binary.LittleEndian.PutUint64(h.buf[:], uint64(v))
	_, _ = h.d.Write(h.buf[:])
}

func (h *hasher) instance(inst *domain.ProblemInstance) {
	h.f(inst.Depot.X)
	h.f(inst.Depot.Y)
	h.i(int64(inst.Capacity))
	h.i(int64(inst.Size()))
	for _, c := range inst.Customers {
		h.f(c.Location.X)
		h.f(c.Location.Y)
		h.i(int64(c.Demand))
	}
}

func (h *hasher) sum() string { return fmt.Sprintf("%016x", h.d.Sum64()) }
