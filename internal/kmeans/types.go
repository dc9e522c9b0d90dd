package kmeans

import (
	"time"

	"github.com/google/uuid"
)

// Request is the body of POST /api/kmeans. Pointer fields are optional.
type Request struct {
	Features      [][]float64 `json:"features"`
	K             int         `json:"k"`
	Seed          *int64      `json:"seed,omitempty"`
	MaxIterations *int        `json:"maxIterations,omitempty"`
	Runs          *int        `json:"runs,omitempty"`
	Standardize   bool        `json:"standardize,omitempty"`
}

type Response struct {
	RunID          uuid.UUID   `json:"runId"`
	ClusterLabels  []int       `json:"clusterLabels"`
	ClusterCenters [][]float64 `json:"clusterCenters"`
	ClusterSizes   []int       `json:"clusterSizes"`
	Inertia        float64     `json:"inertia"`
	Iterations     int         `json:"iterations"`
	Converged      bool        `json:"converged"`
	Seed           int64       `json:"seed"`
}

type RunSummary struct {
	ID           uuid.UUID     `json:"id"`
	K            int           `json:"k"`
	Points       int           `json:"points"`
	Dimensions   int           `json:"dimensions"`
	Fingerprint  string        `json:"fingerprint"`
	Seed         int64         `json:"seed"`
	Runs         int           `json:"runs"`
	Standardized bool          `json:"standardized"`
	Iterations   int           `json:"iterations"`
	Converged    bool          `json:"converged"`
	Inertia      float64       `json:"inertia"`
	Duration     time.Duration `json:"duration"`
	CreatedAt    time.Time     `json:"createdAt"`
}

type RunsResponse struct {
	Runs []RunSummary `json:"runs"`
}
