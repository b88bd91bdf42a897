package results

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// Store keeps finished runs under a base directory, one subdirectory per run
// holding metadata.json and records.tsv.
type Store struct {
	baseDir string
}

func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes one stored run.
type RunMetadata struct {
	ID           string             `json:"id"`
	Timestamp    time.Time          `json:"timestamp"`
	Start        time.Time          `json:"start"`
	RequestedEnd time.Time          `json:"requested_end"`
	FinalEpoch   time.Time          `json:"final_epoch"`
	DtSeconds    float64            `json:"dt_seconds"`
	Cycles       int                `json:"cycles"`
	Integrator   string             `json:"integrator"`
	ResultFile   string             `json:"result_file"`
	BodyNames    []string           `json:"body_names"`
	Designations []string           `json:"designations"`
	Metrics      map[string]float64 `json:"metrics,omitempty"`
	ValidationAU map[string]float64 `json:"validation_au,omitempty"`
}

const (
	metadataFile = "metadata.json"
	recordsFile  = "records.tsv"
)

// Save stores a finished run and returns its id.
func (s *Store) Save(meta RunMetadata, records []Record) (string, error) {
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("prop_%d", time.Now().Unix())
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	if err := WriteFile(filepath.Join(runDir, recordsFile), records); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// List returns metadata for every stored run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var runs []RunMetadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.Load(e.Name())
		if err != nil {
			continue // skip foreign directories
		}
		runs = append(runs, meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

// Load reads one run's metadata.
func (s *Store) Load(id string) (RunMetadata, error) {
	var meta RunMetadata
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("results: run %s: %w", id, err)
	}
	return meta, nil
}

// LoadRecords reads one run's metadata and full record sequence.
func (s *Store) LoadRecords(id string) (RunMetadata, []Record, error) {
	meta, err := s.Load(id)
	if err != nil {
		return meta, nil, err
	}
	records, err := ReadFile(filepath.Join(s.baseDir, id, recordsFile), len(meta.BodyNames))
	if err != nil {
		return meta, nil, err
	}
	return meta, records, nil
}

// ExportData is the JSON export shape for a stored run.
type ExportData struct {
	RunMetadata
	Records []Record `json:"records"`
}

// ExportJSON writes a run as indented JSON.
func ExportJSON(w io.Writer, meta RunMetadata, records []Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{RunMetadata: meta, Records: records})
}
