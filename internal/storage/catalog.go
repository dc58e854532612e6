package storage

import (
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/san-kum/protodisk/internal/config"
)

const catalogFile = "runs.db"

// runRecord is one row of the run catalog.
type runRecord struct {
	ID          string    `gorm:"primaryKey"`
	Preset      string    `gorm:"index"`
	Timestamp   time.Time `gorm:"index"`
	Seed        int64
	Particles   int
	Protostars  int
	Steps       int
	Integrator  string
	SimTime     float64
	EnergyDrift float64
	Elapsed     float64
	Config      datatypes.JSONType[config.Config]
	Metrics     datatypes.JSONType[map[string]float64]
}

func (runRecord) TableName() string { return "runs" }

func newRecord(m *RunMetadata) *runRecord {
	return &runRecord{
		ID:          m.ID,
		Preset:      m.Preset,
		Timestamp:   m.Timestamp,
		Seed:        m.Config.Seed,
		Particles:   m.Particles,
		Protostars:  m.Protostars,
		Steps:       m.Steps,
		Integrator:  m.Config.Integrator,
		SimTime:     m.SimTime,
		EnergyDrift: m.EnergyDrift,
		Elapsed:     m.Elapsed,
		Config:      datatypes.NewJSONType(m.Config),
		Metrics:     datatypes.NewJSONType(m.Metrics),
	}
}

func (r *runRecord) metadata() RunMetadata {
	return RunMetadata{
		ID:          r.ID,
		Preset:      r.Preset,
		Timestamp:   r.Timestamp,
		Config:      r.Config.Data(),
		Particles:   r.Particles,
		Protostars:  r.Protostars,
		Steps:       r.Steps,
		SimTime:     r.SimTime,
		EnergyDrift: r.EnergyDrift,
		Elapsed:     r.Elapsed,
		Metrics:     r.Metrics.Data(),
	}
}

func openCatalog(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&runRecord{}); err != nil {
		return nil, err
	}
	return db, nil
}
