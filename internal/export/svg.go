package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/protodisk/internal/analysis"
	"github.com/san-kum/protodisk/internal/dynamo"
)

const (
	background    = "#0a0a0a"
	diskColor     = "#9ecbff"
	protostarFill = "#ffd23f"
)

// SnapshotToSVG draws a top-down view of a state: disk particles projected
// onto the xy plane and the central body at the origin. extent is the
// half-width of the view in simulation units.
func SnapshotToSVG(v dynamo.View, size int, extent float64) string {
	if size <= 0 || extent <= 0 {
		return ""
	}

	half := float64(size) / 2
	scale := half / extent

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill="%s" fill-opacity="0.6">
`, size, size, size, size, background, diskColor))

	for i := v.ProtostarCount(); i < v.Len(); i++ {
		p := v.Position(i)
		if math.Abs(p.X) > extent || math.Abs(p.Y) > extent {
			continue
		}
		// svg y grows downward
		cx := half + p.X*scale
		cy := half - p.Y*scale
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="0.8"/>
`, cx, cy))
	}
	sb.WriteString("</g>\n")

	if v.ProtostarCount() > 0 {
		sb.WriteString(fmt.Sprintf(`<circle class="protostar" cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, half, half, math.Max(3, float64(size)/100), protostarFill))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// CurveToSVG draws points as a polyline scaled to fill the canvas.
func CurveToSVG(points []analysis.Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	// pad by 10%
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, strokeColor))

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		if i > 0 {
			sb.WriteString(" L")
		}
		sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
