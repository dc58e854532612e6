package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/protodisk/internal/config"
	"github.com/san-kum/protodisk/internal/dynamo"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	st := New(t.TempDir(), zerolog.Nop())
	require.NoError(t, st.Init())
	t.Cleanup(func() { st.Close() })
	return st
}

func testState() *dynamo.ParticleState {
	s := dynamo.NewParticleState(4, 2)
	s.Pos[2] = r3.Vec{X: 100.125, Y: -3, Z: 0.5}
	s.Vel[2] = r3.Vec{X: 0.1, Y: 1.4142135623730951, Z: -0.01}
	s.Pos[3] = r3.Vec{X: -1e-7, Y: 150, Z: 0}
	s.Vel[3] = r3.Vec{X: -1.1547005383792515}
	return s
}

func testMeta(seed int64) *RunMetadata {
	cfg := config.DefaultConfig()
	cfg.Particles = 4
	cfg.Seed = seed
	return &RunMetadata{
		Preset:      "small",
		Config:      *cfg,
		Steps:       100,
		SimTime:     10,
		EnergyDrift: 0.001,
		Metrics:     map[string]float64{"energy_drift": 0.002, "bound": 1},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := newStore(t)
	s := testState()

	runID, err := st.Save(testMeta(42), s.View())
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, runID, meta.ID)
	assert.Equal(t, int64(42), meta.Config.Seed)
	assert.Equal(t, 4, meta.Particles)
	assert.Equal(t, 2, meta.Protostars)
	assert.Equal(t, 0.002, meta.Metrics["energy_drift"])
	assert.False(t, meta.Timestamp.IsZero())

	loaded, err := st.LoadParticles(runID)
	require.NoError(t, err)
	assert.Equal(t, s.ProtostarCount(), loaded.ProtostarCount())
	assert.Equal(t, s.Pos, loaded.Pos)
	assert.Equal(t, s.Vel, loaded.Vel)
}

func TestStoreSave_UniqueIDs(t *testing.T) {
	st := newStore(t)

	a, err := st.Save(testMeta(1), testState().View())
	require.NoError(t, err)
	b, err := st.Save(testMeta(1), testState().View())
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestStoreList(t *testing.T) {
	st := newStore(t)

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	for _, seed := range []int64{1, 2, 3} {
		_, err := st.Save(testMeta(seed), testState().View())
		require.NoError(t, err)
	}

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 3)

	seeds := map[int64]bool{}
	for _, r := range runs {
		seeds[r.Config.Seed] = true
		assert.Equal(t, "small", r.Preset)
		assert.Equal(t, 1.0, r.Metrics["bound"])
		assert.Equal(t, "symplectic", r.Config.Integrator)
	}
	assert.Len(t, seeds, 3)
}

func TestStoreReindex(t *testing.T) {
	dir := t.TempDir()
	first := New(dir, zerolog.Nop())
	require.NoError(t, first.Init())
	id, err := first.Save(testMeta(7), testState().View())
	require.NoError(t, err)
	require.NoError(t, first.Close())

	require.NoError(t, os.Remove(filepath.Join(dir, catalogFile)))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "stray"), 0755))

	st := New(dir, zerolog.Nop())
	require.NoError(t, st.Init())
	defer st.Close()

	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	n, err := st.Reindex()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
}

func TestStoreLoad_Missing(t *testing.T) {
	st := newStore(t)

	_, err := st.Load("nope")
	assert.Error(t, err)
	_, err = st.LoadParticles("nope")
	assert.Error(t, err)
}

func TestLoadParticles_GroupOrder(t *testing.T) {
	st := newStore(t)
	runDir := filepath.Join(st.Dir(), "bad")
	require.NoError(t, os.Mkdir(runDir, 0755))

	csv := "index,group,x,y,z,vx,vy,vz\n" +
		"0,disk,1,0,0,0,1,0\n" +
		"1,protostar,0,0,0,0,0,0\n"
	require.NoError(t, os.WriteFile(filepath.Join(runDir, particlesFile), []byte(csv), 0644))

	_, err := st.LoadParticles("bad")
	assert.ErrorIs(t, err, dynamo.ErrInvalidState)
}

func TestExportJSON(t *testing.T) {
	s := testState()
	meta := testMeta(3)
	meta.ID = "disk_test"

	var buf bytes.Buffer
	require.NoError(t, ExportJSON(&buf, meta, s.View()))

	var got ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "disk_test", got.Run.ID)
	assert.Equal(t, 2, got.Protostars)
	require.Len(t, got.Positions, 4)
	assert.Equal(t, [3]float64{100.125, -3, 0.5}, got.Positions[2])
	assert.Equal(t, [3]float64{-1.1547005383792515, 0, 0}, got.Velocities[3])
}
