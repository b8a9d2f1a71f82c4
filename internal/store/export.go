package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/isinglab/internal/ensemble"
	"github.com/san-kum/isinglab/internal/sim"
)

type ExportData struct {
	ID            string             `json:"id"`
	Width         int                `json:"width"`
	Height        int                `json:"height"`
	Temperature   float64            `json:"temperature"`
	Field         float64            `json:"field"`
	Coupling      float64            `json:"coupling"`
	Seed          int64              `json:"seed"`
	Sweeps        int                `json:"sweeps"`
	Samples       []sim.Sample       `json:"samples"`
	Metrics       map[string]float64 `json:"metrics"`
}

func exportData(meta *RunMetadata, samples []sim.Sample) ExportData {
	return ExportData{
		ID:          meta.ID,
		Width:       meta.Width,
		Height:      meta.Height,
		Temperature: meta.Temperature,
		Field:       meta.Field,
		Coupling:    meta.Coupling,
		Seed:        meta.Seed,
		Sweeps:      len(samples),
		Samples:     samples,
		Metrics:     meta.Metrics,
	}
}

func ExportJSON(path string, meta *RunMetadata, samples []sim.Sample) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeJSON(file, exportData(meta, samples))
}

func ExportJSONStdout(meta *RunMetadata, samples []sim.Sample) error {
	return writeJSON(os.Stdout, exportData(meta, samples))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// DistributionRecord is one row of an exported sweep distribution.
type DistributionRecord struct {
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	Temperature   float64 `json:"temperature"`
	Field         float64 `json:"field"`
	Seed          int64   `json:"seed"`
	Magnetization float64 `json:"magnetization"`
	MeanAbsMag    float64 `json:"mean_abs_magnetization"`
	Energy        float64 `json:"energy"`
}

// ExportDistribution writes one record per ensemble run.
func ExportDistribution(path string, dist ensemble.Distribution) error {
	records := make([]DistributionRecord, len(dist))
	for i, o := range dist {
		records[i] = DistributionRecord{
			Width:         o.Point.Width,
			Height:        o.Point.Height,
			Temperature:   o.Point.Temperature,
			Field:         o.Point.Field,
			Seed:          o.Seed,
			Magnetization: o.FinalMagnetization,
			MeanAbsMag:    o.MeanAbsMag,
			Energy:        o.FinalEnergy,
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeJSON(file, records)
}
