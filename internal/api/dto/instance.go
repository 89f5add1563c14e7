package dto

type InstanceRequest struct {
	Name      string       `json:"name"`
	Depot     [2]float64   `json:"depot"`
	Capacity  int          `json:"capacity"`
	Locations [][2]float64 `json:"locations"`
	Demands   []int        `json:"demands"`
}

type CustomerResponse struct {
	Index  int     `json:"index"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Demand int     `json:"demand"`
}

type InstanceResponse struct {
	Name        string             `json:"name"`
	Depot       [2]float64         `json:"depot"`
	Capacity    int                `json:"capacity"`
	TotalDemand int                `json:"total_demand"`
	Customers   []CustomerResponse `json:"customers"`
}

type ListInstancesResponse struct {
	Instances []InstanceResponse `json:"instances"`
}

type GenerateInstanceRequest struct {
	Name      string      `json:"name"`
	Customers int         `json:"customers"`
	Capacity  int         `json:"capacity"`
	MaxDemand int         `json:"max_demand"`
	GridSize  int         `json:"grid_size"`
	Depot     *[2]float64 `json:"depot"`
	Seed      *int64      `json:"seed"`
	// Save stores the generated instance under Name.
	Save bool `json:"save"`
}
