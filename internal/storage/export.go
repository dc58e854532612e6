package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/protodisk/internal/dynamo"
)

type ExportData struct {
	Run        *RunMetadata `json:"run"`
	Protostars int          `json:"protostars"`
	Positions  [][3]float64 `json:"positions"`
	Velocities [][3]float64 `json:"velocities"`
}

// ExportJSON writes the run metadata and full particle state as one JSON
// document.
func ExportJSON(w io.Writer, meta *RunMetadata, v dynamo.View) error {
	data := ExportData{
		Run:        meta,
		Protostars: v.ProtostarCount(),
		Positions:  make([][3]float64, v.Len()),
		Velocities: make([][3]float64, v.Len()),
	}
	for i := 0; i < v.Len(); i++ {
		p, vel := v.Position(i), v.Velocity(i)
		data.Positions[i] = [3]float64{p.X, p.Y, p.Z}
		data.Velocities[i] = [3]float64{vel.X, vel.Y, vel.Z}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
