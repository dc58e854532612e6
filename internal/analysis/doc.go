// Package analysis summarizes the structure of a disk snapshot.
//
//   - [RadialProfile]: particle counts and number density in spherical shells
//   - [SurfaceDensity]: counts and surface density in planar annuli
//   - [VerticalThickness]: RMS height of the disk above the midplane
//   - [RadialMoments]: mean, spread and median of the particle radii
//   - [RotationCurve]: tangential speed against planar radius
//
// Every function reads only the disk group of the view; protostars at the
// origin would otherwise dominate the innermost bin.
//
// # Plotting
//
// A rotation curve can be drawn directly in the terminal:
//
//	pts := analysis.RotationCurve(state.View())
//	fmt.Print(analysis.ScatterToASCII(pts, 80, 24))
package analysis
