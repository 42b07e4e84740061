package storage

import (
	"encoding/json"
	"io"
	"os"
)

// ExportData is the JSON export form of a stored run: the metadata plus
// the full event table.
type ExportData struct {
	Meta   RunMetadata   `json:"meta"`
	Events []ExportEvent `json:"events"`
}

type ExportEvent struct {
	Seq  int     `json:"seq"`
	Kind string  `json:"kind"`
	Time float64 `json:"time"`
	X1   float64 `json:"x1"`
	V1   float64 `json:"v1"`
	X2   float64 `json:"x2"`
	V2   float64 `json:"v2"`
}

// ExportJSON writes a stored run as a single JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	events, err := s.LoadEvents(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		Meta:   *meta,
		Events: make([]ExportEvent, len(events)),
	}
	for i, ev := range events {
		data.Events[i] = ExportEvent{
			Seq: ev.Seq, Kind: ev.Kind, Time: ev.Time,
			X1: ev.X1, V1: ev.V1, X2: ev.X2, V2: ev.V2,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportJSONStdout writes a stored run as JSON to standard output.
func (s *Store) ExportJSONStdout(runID string) error {
	return s.ExportJSON(os.Stdout, runID)
}
