package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"

	"github.com/san-kum/oscnet/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	phasesFile   = "phases.csv.zst"
)

// ErrRunNotFound indicates a run ID with no stored metadata.
var ErrRunNotFound = errors.New("storage: run not found")

// Store keeps one directory per run under baseDir.
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
	ID             string             `json:"id"`
	Label          string             `json:"label"`
	Timestamp      time.Time          `json:"timestamp"`
	Oscillators    int                `json:"oscillators"`
	Topology       string             `json:"topology"`
	Representation string             `json:"representation"`
	Seed           int64              `json:"seed"`
	Coupling       float64            `json:"coupling"`
	Mode           string             `json:"mode"`
	Solver         string             `json:"solver"`
	Termination    string             `json:"termination"`
	Steps          int                `json:"steps"`
	Snapshots      int                `json:"snapshots"`
	FinalOrder     float64            `json:"final_order"`
	Metrics        map[string]float64 `json:"metrics"`
}

// NewRunID returns "<label>_<8 hex chars>".
func NewRunID(label string) string {
	if label == "" {
		label = "run"
	}
	return fmt.Sprintf("%s_%s", label, uuid.New().String()[:8])
}

// Save writes meta and the phases of dyn under a fresh run ID, which it
// returns. Run fields derived from dyn override those in meta.
func (s *Store) Save(meta RunMetadata, dyn *dynamo.Dynamic) (string, error) {
	runID := NewRunID(meta.Label)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Solver = dyn.Solver.String()
	meta.Termination = dyn.Termination.String()
	meta.Steps = dyn.StepsTaken
	meta.Snapshots = dyn.Len()
	meta.Metrics = dyn.Metrics
	if meta.Oscillators == 0 {
		meta.Oscillators = dyn.Oscillators()
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	phaseFile, err := os.Create(filepath.Join(runDir, phasesFile))
	if err != nil {
		return "", err
	}
	defer phaseFile.Close()

	zw, err := zstd.NewWriter(phaseFile, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return "", err
	}
	if err := WriteCSV(zw, dyn); err != nil {
		zw.Close()
		return "", err
	}
	if err := zw.Close(); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns stored runs, newest first.
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

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadDynamic restores the recorded dynamic of a run.
func (s *Store) LoadDynamic(runID string) (*dynamo.Dynamic, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, phasesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	zr, err := zstd.NewReader(file)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	solver, err := dynamo.ParseSolver(meta.Solver)
	if err != nil {
		return nil, err
	}
	dyn, err := ReadCSV(zr, solver)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	if term, err := dynamo.ParseTermination(meta.Termination); err == nil {
		dyn.Termination = term
	}
	dyn.StepsTaken = meta.Steps
	for k, v := range meta.Metrics {
		dyn.Metrics[k] = v
	}
	return dyn, nil
}

// Size returns the bytes used on disk by a run.
func (s *Store) Size(runID string) (int64, error) {
	entries, err := os.ReadDir(filepath.Join(s.baseDir, runID))
	if err != nil {
		return 0, err
	}

	var total int64
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return 0, err
		}
		total += info.Size()
	}
	return total, nil
}

// WriteCSV writes one row per snapshot: time followed by every phase.
func WriteCSV(out io.Writer, dyn *dynamo.Dynamic) error {
	w := csv.NewWriter(out)

	header := []string{"time"}
	for i := 0; i < dyn.Oscillators(); i++ {
		header = append(header, fmt.Sprintf("theta%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, phases := range dyn.Phases {
		row := make([]string, 0, len(phases)+1)
		row = append(row, strconv.FormatFloat(dyn.Times[i], 'g', -1, 64))
		for _, val := range phases {
			row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// ReadCSV parses the format written by WriteCSV.
func ReadCSV(in io.Reader, solver dynamo.Solver) (*dynamo.Dynamic, error) {
	r := csv.NewReader(in)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	dyn := dynamo.NewDynamic(solver, len(records))
	if len(records) < 2 {
		return dyn, nil
	}

	for i := 1; i < len(records); i++ {
		record := records[i]

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		phases := make(dynamo.State, 0, len(record)-1)
		for j := 1; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", i, j, err)
			}
			phases = append(phases, val)
		}
		dyn.Append(t, phases)
	}
	return dyn, nil
}
