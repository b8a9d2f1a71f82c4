package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/isinglab/internal/sim"
)

// Store persists completed runs under a base directory, one subdirectory
// per run holding metadata.json and samples.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Timestamp     time.Time          `json:"timestamp"`
	Width         int                `json:"width"`
	Height        int                `json:"height"`
	Temperature   float64            `json:"temperature"`
	Field         float64            `json:"field"`
	Coupling      float64            `json:"coupling"`
	EquilSweeps   int                `json:"equilibration_sweeps"`
	MeasureSweeps int                `json:"measurement_sweeps"`
	Seed          int64              `json:"seed"`
	RandomInit    bool               `json:"random_init"`
	AcceptedFlips int                `json:"accepted_flips"`
	Metrics       map[string]float64 `json:"metrics"`
}

func (s *Store) Save(result *sim.Result) (string, error) {
	p := result.Params
	runID := fmt.Sprintf("%dx%d_T%.3f_%d", p.Width, p.Height, p.Temperature, time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Timestamp:     time.Now(),
		Width:         p.Width,
		Height:        p.Height,
		Temperature:   p.Temperature,
		Field:         p.Field,
		Coupling:      p.Coupling,
		EquilSweeps:   p.EquilSweeps,
		MeasureSweeps: p.MeasureSweeps,
		Seed:          p.Seed,
		RandomInit:    p.RandomInit,
		AcceptedFlips: result.AcceptedFlips,
		Metrics:       result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "samples.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"sweep", "magnetization", "energy"}); err != nil {
		return "", err
	}
	for _, sample := range result.Samples {
		row := []string{
			strconv.Itoa(sample.Sweep),
			strconv.FormatFloat(sample.Magnetization, 'f', 6, 64),
			strconv.FormatFloat(sample.Energy, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) LoadSamples(runID string) ([]sim.Sample, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "samples.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("store: empty samples file for run %s", runID)
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < 3 {
			continue
		}
		sweep, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, err
		}
		mag, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, err
		}
		energy, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, err
		}
		samples = append(samples, sim.Sample{Sweep: sweep, Magnetization: mag, Energy: energy})
	}
	return samples, nil
}
