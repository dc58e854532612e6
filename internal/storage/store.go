package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/san-kum/protodisk/internal/config"
	"github.com/san-kum/protodisk/internal/dynamo"
)

const (
	metadataFile  = "metadata.json"
	particlesFile = "particles.csv"
)

var particleHeader = []string{"index", "group", "x", "y", "z", "vx", "vy", "vz"}

// Store keeps one directory per run plus a SQLite catalog of all runs.
type Store struct {
	baseDir string
	db      *gorm.DB
	log     zerolog.Logger
}

func New(baseDir string, log zerolog.Logger) *Store {
	return &Store{baseDir: baseDir, log: log}
}

func (s *Store) Dir() string { return s.baseDir }

// Init creates the base directory and opens the catalog.
func (s *Store) Init() error {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return err
	}
	db, err := openCatalog(filepath.Join(s.baseDir, catalogFile))
	if err != nil {
		return fmt.Errorf("opening run catalog: %w", err)
	}
	s.db = db
	return nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Preset      string             `json:"preset,omitempty"`
	Timestamp   time.Time          `json:"timestamp"`
	Config      config.Config      `json:"config"`
	Particles   int                `json:"particles"`
	Protostars  int                `json:"protostars"`
	Steps       int                `json:"steps"`
	SimTime     float64            `json:"sim_time"`
	EnergyDrift float64            `json:"energy_drift"`
	Elapsed     float64            `json:"elapsed_seconds"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes meta and the particle state to a new run directory and adds
// the run to the catalog. It fills in meta.ID, meta.Timestamp and the
// particle counts.
func (s *Store) Save(meta *RunMetadata, v dynamo.View) (string, error) {
	meta.Timestamp = time.Now().UTC()
	meta.Particles = v.Len()
	meta.Protostars = v.ProtostarCount()

	runID, runDir, err := s.makeRunDir(meta.Timestamp, meta.Config.Seed)
	if err != nil {
		return "", err
	}
	meta.ID = runID

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeParticles(filepath.Join(runDir, particlesFile), v); err != nil {
		return "", err
	}
	if s.db != nil {
		if err := s.db.Save(newRecord(meta)).Error; err != nil {
			return "", fmt.Errorf("cataloging run %s: %w", runID, err)
		}
	}

	s.log.Info().Str("run", runID).Str("dir", runDir).Msg("run saved")
	return runID, nil
}

func (s *Store) makeRunDir(ts time.Time, seed int64) (string, string, error) {
	base := fmt.Sprintf("disk_%s_s%d", ts.Format("20060102T150405"), seed)
	for i := 0; i < 1000; i++ {
		id := base
		if i > 0 {
			id = fmt.Sprintf("%s_%d", base, i)
		}
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
	}
	return "", "", fmt.Errorf("no free run directory for %s", base)
}

// List returns the cataloged runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	if s.db == nil {
		return nil, fmt.Errorf("store not initialized")
	}
	var recs []runRecord
	if err := s.db.Order("timestamp desc").Find(&recs).Error; err != nil {
		return nil, err
	}
	runs := make([]RunMetadata, 0, len(recs))
	for i := range recs {
		runs = append(runs, recs[i].metadata())
	}
	return runs, nil
}

// Reindex rebuilds the catalog from the metadata files on disk and returns
// the number of runs found.
func (s *Store) Reindex() (int, error) {
	if s.db == nil {
		return 0, fmt.Errorf("store not initialized")
	}
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return 0, err
	}

	n := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			s.log.Warn().Err(err).Str("dir", entry.Name()).Msg("skipping run without metadata")
			continue
		}
		if err := s.db.Save(newRecord(meta)).Error; err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parsing metadata of %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadParticles reads the saved final state of a run.
func (s *Store) LoadParticles(runID string) (*dynamo.ParticleState, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, particlesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(particleHeader)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: missing header", particlesFile)
	}
	records = records[1:]

	protostars := 0
	for i, rec := range records {
		if rec[1] != "protostar" {
			break
		}
		protostars = i + 1
	}

	state := dynamo.NewParticleState(len(records), protostars)
	for i, rec := range records {
		if (rec[1] == "protostar") != state.IsProtostar(i) {
			return nil, fmt.Errorf("%w: row %d out of group order", dynamo.ErrInvalidState, i)
		}
		var vals [6]float64
		for j := range vals {
			vals[j], err = strconv.ParseFloat(rec[j+2], 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i, particleHeader[j+2], err)
			}
		}
		state.Pos[i].X, state.Pos[i].Y, state.Pos[i].Z = vals[0], vals[1], vals[2]
		state.Vel[i].X, state.Vel[i].Y, state.Vel[i].Z = vals[3], vals[4], vals[5]
	}
	return state, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeParticles(path string, v dynamo.View) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(particleHeader); err != nil {
		return err
	}

	row := make([]string, len(particleHeader))
	for i := 0; i < v.Len(); i++ {
		p, vel := v.Position(i), v.Velocity(i)
		row[0] = strconv.Itoa(i)
		row[1] = "disk"
		if v.IsProtostar(i) {
			row[1] = "protostar"
		}
		for j, x := range [6]float64{p.X, p.Y, p.Z, vel.X, vel.Y, vel.Z} {
			row[j+2] = strconv.FormatFloat(x, 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
