package model

import (
	"encoding/binary"
	"time"

	"github.com/google/uuid"
)

// Run summarises one clustering request. Labels and centers are not kept.
type Run struct {
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

func NewRun(id uuid.UUID, k, points, dimensions int, createdAt time.Time) Run {
	return Run{
		ID:         id,
		K:          k,
		Points:     points,
		Dimensions: dimensions,
		CreatedAt:  createdAt,
	}
}

// Key orders runs by creation time, then id.
func (r Run) Key() []byte {
	key := make([]byte, 8+len(r.ID))
	binary.BigEndian.PutUint64(key[:8], uint64(r.CreatedAt.UnixNano()))
	copy(key[8:], r.ID[:])
	return key
}
