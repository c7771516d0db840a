package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/san-kum/harmonograph/internal/dynamo"
)

const stateFile = "state.json"

// Store keeps the persisted preset index and rendered runs under one directory.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type selection struct {
	PresetIndex int       `json:"preset_index"`
	Updated     time.Time `json:"updated"`
}

// LoadIndex returns the stored preset index, or 0 if none was saved yet.
func (s *Store) LoadIndex() (int, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, stateFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}

	var sel selection
	if err := json.Unmarshal(data, &sel); err != nil {
		return 0, fmt.Errorf("%s: %w", stateFile, err)
	}
	return sel.PresetIndex, nil
}

// SaveIndex writes the index and commits it with a rename.
func (s *Store) SaveIndex(idx int) error {
	if err := s.Init(); err != nil {
		return err
	}
	data, err := json.Marshal(selection{PresetIndex: idx, Updated: time.Now()})
	if err != nil {
		return err
	}

	path := filepath.Join(s.baseDir, stateFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Timestamp   time.Time          `json:"timestamp"`
	Width       int                `json:"width"`
	Height      int                `json:"height"`
	Frames      int                `json:"frames"`
	Preset      int                `json:"preset"`
	Composition dynamo.Composition `json:"composition"`
	Files       []string           `json:"files"`
	Metrics     map[string]float64 `json:"metrics"`
}

// CreateRun makes a fresh run directory and returns its id.
func (s *Store) CreateRun(prefix string) (string, error) {
	runID := fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
	if err := os.MkdirAll(filepath.Join(s.baseDir, runID), 0755); err != nil {
		return "", err
	}
	return runID, nil
}

// FramePath names frame n of a run.
func (s *Store) FramePath(runID string, n int) string {
	return filepath.Join(s.baseDir, runID, fmt.Sprintf("frame_%04d.png", n))
}

func (s *Store) SaveMetadata(meta *RunMetadata) error {
	metaPath := filepath.Join(s.baseDir, meta.ID, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return err
	}
	defer metaFile.Close()

	return writeJSON(metaFile, meta)
}

// Export writes a run's metadata as indented JSON.
func (s *Store) Export(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	return writeJSON(w, meta)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}
