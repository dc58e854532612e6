package viz

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// BaseDistance is the camera distance from the origin at zoom 1.
	BaseDistance = 800.0
	MinZoom      = 0.5
	MaxZoom      = 8.0

	fovY = 75 * math.Pi / 180
	near = 0.1
)

// Camera orbits the origin. Rotations are applied to the scene in X, Y, Z
// order before a perspective projection along -z.
type Camera struct {
	RotX, RotY, RotZ float64
	Zoom             float64
}

func NewCamera() *Camera {
	return &Camera{Zoom: 1}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.SetZoom(c.Zoom * 1.2) }
func (c *Camera) ZoomOut()          { c.SetZoom(c.Zoom / 1.2) }

// SetZoom clamps z to [MinZoom, MaxZoom].
func (c *Camera) SetZoom(z float64) {
	c.Zoom = math.Max(MinZoom, math.Min(MaxZoom, z))
}

// Distance is the camera distance from the origin, between 100 and 1600.
func (c *Camera) Distance() float64 { return BaseDistance / c.Zoom }

func (c *Camera) Reset() {
	*c = Camera{Zoom: 1}
}

// RotatePoint rotates p around the scene axes.
func (c *Camera) RotatePoint(p r3.Vec) r3.Vec {
	sx, cx := math.Sincos(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	sy, cy := math.Sincos(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	sz, cz := math.Sincos(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project maps p to sub-pixel coordinates on a sw x sh surface. It reports
// false for points behind the near plane or off screen.
func (c *Camera) Project(p r3.Vec, sw, sh int) (int, int, bool) {
	x, y, depth := c.project(p, sw, sh)
	if depth <= near {
		return 0, 0, false
	}
	sx, sy := int(math.Floor(x)), int(math.Floor(y))
	return sx, sy, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

// ProjectedRadius is the on-screen radius in sub-pixels of a sphere of
// radius r at the origin.
func (c *Camera) ProjectedRadius(r float64, sh int) float64 {
	return r * focal(sh) / c.Distance()
}

func (c *Camera) project(p r3.Vec, sw, sh int) (x, y, depth float64) {
	rot := c.RotatePoint(p)
	depth = c.Distance() - rot.Z
	k := focal(sh) / depth
	return float64(sw)/2 + rot.X*k, float64(sh)/2 - rot.Y*k, depth
}

func focal(sh int) float64 {
	return float64(sh) / 2 / math.Tan(fovY/2)
}
