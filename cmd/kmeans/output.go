package main

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

type result struct {
	RunID          string      `json:"runId,omitempty" yaml:"runId,omitempty"`
	ClusterLabels  []int       `json:"clusterLabels" yaml:"clusterLabels,flow"`
	ClusterCenters [][]float64 `json:"clusterCenters" yaml:"clusterCenters,flow"`
	ClusterSizes   []int       `json:"clusterSizes" yaml:"clusterSizes,flow"`
	Inertia        float64     `json:"inertia" yaml:"inertia"`
	Iterations     int         `json:"iterations" yaml:"iterations"`
	Converged      bool        `json:"converged" yaml:"converged"`
	Seed           int64       `json:"seed" yaml:"seed"`
}

func writeResult(w io.Writer, format string, res *result) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q, expected %s or %s", format, outputJSON, outputYAML)
	}
}
