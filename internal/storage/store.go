package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/san-kum/rocketsim/internal/analysis"
	"github.com/san-kum/rocketsim/internal/config"
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/export"
	"github.com/san-kum/rocketsim/internal/logging"
	"github.com/san-kum/rocketsim/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
	configFile     = "config.yaml"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
	logger  log.Logger
}

func New(baseDir string, logger log.Logger) *Store {
	return &Store{baseDir: baseDir, logger: logging.Subsystem(logger, "storage")}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Variant    string             `json:"variant"`
	Preset     string             `json:"preset,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Integrator string             `json:"integrator"`
	Phase      string             `json:"phase"`
	Steps      int                `json:"steps"`
	BurnTime   float64            `json:"burn_time"`
	Events     analysis.Events    `json:"events"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes the run under a fresh ID of the form <variant>_<uuid prefix>
// and returns the ID. Metadata is written last, so List never reports a
// run whose trajectory is missing. On failure the run directory is removed.
func (s *Store) Save(cfg *config.Config, preset string, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%s", result.Variant, strings.SplitN(uuid.NewString(), "-", 2)[0])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Variant:    result.Variant.String(),
		Preset:     preset,
		Timestamp:  time.Now().UTC(),
		Dt:         cfg.Dt,
		Integrator: result.Integrator,
		Phase:      result.Phase.String(),
		Steps:      result.Steps,
		BurnTime:   cfg.Engine.BurnTime,
		Events:     result.Events,
		Metrics:    result.Metrics,
	}

	if err := s.writeRun(runDir, cfg, meta, result.Trajectory); err != nil {
		if rmErr := os.RemoveAll(runDir); rmErr != nil {
			level.Warn(s.logger).Log("msg", "cleanup failed", "id", runID, "err", rmErr)
		}
		return "", fmt.Errorf("save run %s: %w", runID, err)
	}

	level.Debug(s.logger).Log("msg", "run saved", "id", runID, "samples", result.Trajectory.Len())
	return runID, nil
}

func (s *Store) writeRun(runDir string, cfg *config.Config, meta RunMetadata, traj *dynamo.Trajectory) error {
	f, err := os.Create(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return err
	}
	if err := export.WriteCSV(f, traj); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return err
	}

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(runDir, metadataFile), data, 0644)
}

// List returns the stored runs, newest first. Directories without readable
// metadata are skipped.
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
			level.Warn(s.logger).Log("msg", "skipping run", "dir", entry.Name(), "err", err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
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
		return nil, fmt.Errorf("%s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) (*dynamo.Trajectory, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer f.Close()

	traj, err := export.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}
	return traj, nil
}

func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}
