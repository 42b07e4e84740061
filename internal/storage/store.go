package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/piblocks/internal/engine"
)

// Store persists simulation runs under a base directory: one subdirectory
// per run holding metadata.json and events.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata summarizes a completed (or budget-bounded) run.
type RunMetadata struct {
	ID             string    `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	Mass1          float64   `json:"mass1"`
	Mass2          float64   `json:"mass2"`
	MassRatio      float64   `json:"mass_ratio"`
	MaxDenominator int64     `json:"max_denominator"`
	Wall           int       `json:"wall_collisions"`
	Block          int       `json:"block_collisions"`
	Total          int       `json:"total_collisions"`
	Elapsed        float64   `json:"elapsed"`
	ElapsedExact   string    `json:"elapsed_exact"`
	PiEstimate     float64   `json:"pi_estimate"`
	Complete       bool      `json:"complete"`
}

// EventRecord is one row of events.csv, in float form.
type EventRecord struct {
	Seq  int
	Kind string
	Time float64
	X1   float64
	V1   float64
	X2   float64
	V2   float64
}

// Save writes a run directory and returns its generated ID.
func (s *Store) Save(meta RunMetadata, events []engine.Event) (string, error) {
	runID := fmt.Sprintf("r%d_%d", int64(meta.MassRatio), time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()

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

	csvFile, err := os.Create(filepath.Join(runDir, "events.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	header := []string{"seq", "kind", "time", "x1", "v1", "x2", "v2"}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, ev := range events {
		row := []string{
			strconv.Itoa(ev.Seq),
			ev.Kind.String(),
			strconv.FormatFloat(ev.Time.Float64(), 'f', 6, 64),
			strconv.FormatFloat(ev.Block1.Pos.Float64(), 'f', 6, 64),
			strconv.FormatFloat(ev.Block1.Vel.Float64(), 'f', 6, 64),
			strconv.FormatFloat(ev.Block2.Pos.Float64(), 'f', 6, 64),
			strconv.FormatFloat(ev.Block2.Vel.Float64(), 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// List returns metadata for every stored run.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	return runs, nil
}

// Load reads one run's metadata.
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

// LoadEvents reads one run's event table.
func (s *Store) LoadEvents(runID string) ([]EventRecord, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "events.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []EventRecord{}, nil
	}

	events := make([]EventRecord, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != 7 {
			continue
		}
		seq, err := strconv.Atoi(rec[0])
		if err != nil {
			continue
		}
		ev := EventRecord{Seq: seq, Kind: rec[1]}
		vals := make([]float64, 5)
		bad := false
		for i, field := range rec[2:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				bad = true
				break
			}
			vals[i] = v
		}
		if bad {
			continue
		}
		ev.Time, ev.X1, ev.V1, ev.X2, ev.V2 = vals[0], vals[1], vals[2], vals[3], vals[4]
		events = append(events, ev)
	}

	return events, nil
}
