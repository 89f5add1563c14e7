package handlers

import (
	"fleet-route-optimizer/internal/api/dto"
	"fleet-route-optimizer/internal/domain"
	"fleet-route-optimizer/internal/ports"
	"fleet-route-optimizer/internal/services"
	"math/rand"
	"net/http"
	"strings"
	"time"
)

type InstanceHandler struct {
	Repo ports.InstanceRepository
}

// Instances lists stored instances (GET) or stores one (POST).
func (h *InstanceHandler) Instances(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	if r.Method == http.MethodGet {
		h.list(w, r)
		return
	}
	h.create(w, r)
}

func (h *InstanceHandler) list(w http.ResponseWriter, r *http.Request) {
	insts, err := h.Repo.ListInstances(r.Context())
	if err != nil {
		writeServiceError(w, r, "list instances", err)
		return
	}

	res := dto.ListInstancesResponse{Instances: make([]dto.InstanceResponse, 0, len(insts))}
	for _, inst := range insts {
		res.Instances = append(res.Instances, toInstanceResponse(inst))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *InstanceHandler) create(w http.ResponseWriter, r *http.Request) {
	var req dto.InstanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, r, http.StatusBadRequest, "name is required")
		return
	}

	inst, err := toInstance(req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Repo.SaveInstance(r.Context(), inst); err != nil {
		writeServiceError(w, r, "save instance", err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toInstanceResponse(inst))
}

// Generate draws a random instance and optionally stores it.
func (h *InstanceHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodPost) {
		return
	}

	var req dto.GenerateInstanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Customers > 10000 {
		writeError(w, r, http.StatusBadRequest, "customers must be at most 10000")
		return
	}

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	genReq := services.GenerateInstanceRequest{
		Name:      strings.TrimSpace(req.Name),
		Customers: req.Customers,
		Capacity:  req.Capacity,
		MaxDemand: req.MaxDemand,
		GridSize:  req.GridSize,
	}
	if req.Depot != nil {
		genReq.Depot = &domain.Coordinates{X: req.Depot[0], Y: req.Depot[1]}
	}

	inst, err := services.GenerateInstance(rand.New(rand.NewSource(seed)), genReq)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	status := http.StatusOK
	if req.Save {
		if err := h.Repo.SaveInstance(r.Context(), inst); err != nil {
			writeServiceError(w, r, "save generated instance", err)
			return
		}
		status = http.StatusCreated
	}
	writeJSON(w, r, status, toInstanceResponse(inst))
}
