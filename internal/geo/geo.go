// Package geo carries the small amount of geography the pipeline needs:
// geographic bounding boxes and their projection onto raster pixel
// windows.
package geo

import "fmt"

// Bbox is a geographic bounding box in decimal degrees.
type Bbox struct {
	XMin float64 `yaml:"xmin"`
	XMax float64 `yaml:"xmax"`
	YMin float64 `yaml:"ymin"`
	YMax float64 `yaml:"ymax"`
}

// NewBbox validates coordinate ranges and ordering.
func NewBbox(xmin, xmax, ymin, ymax float64) (Bbox, error) {
	if xmin < -180 || xmin > 180 || xmax < -180 || xmax > 180 {
		return Bbox{}, fmt.Errorf("longitude values must be between -180 and 180")
	}
	if ymin < -90 || ymin > 90 || ymax < -90 || ymax > 90 {
		return Bbox{}, fmt.Errorf("latitude values must be between -90 and 90")
	}
	if xmin > xmax || ymin > ymax {
		return Bbox{}, fmt.Errorf("min values must be <= max values")
	}
	return Bbox{XMin: xmin, XMax: xmax, YMin: ymin, YMax: ymax}, nil
}

// Validate re-checks a box that was populated by unmarshaling.
func (b Bbox) Validate() error {
	_, err := NewBbox(b.XMin, b.XMax, b.YMin, b.YMax)
	return err
}

// Width returns the longitudinal extent in degrees.
func (b Bbox) Width() float64 { return b.XMax - b.XMin }

// Height returns the latitudinal extent in degrees.
func (b Bbox) Height() float64 { return b.YMax - b.YMin }

// Contains reports whether the point lies inside the box.
func (b Bbox) Contains(lon, lat float64) bool {
	return lon >= b.XMin && lon <= b.XMax && lat >= b.YMin && lat <= b.YMax
}

// Center returns the box midpoint as (lon, lat).
func (b Bbox) Center() (float64, float64) {
	return (b.XMin + b.XMax) / 2, (b.YMin + b.YMax) / 2
}

// GeoTransform is a GDAL-style affine transform:
// [origin x, pixel width, 0, origin y, 0, pixel height]. North-up
// rasters carry a negative pixel height.
type GeoTransform [6]float64

// Window is a pixel-space rectangle within a raster.
type Window struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Empty reports whether the window covers no pixels.
func (w Window) Empty() bool { return w.Width <= 0 || w.Height <= 0 }

// PixelWindow projects the box onto a raster and clips the result to the
// raster dimensions. The geographic edges are expanded outward to whole
// pixels so every intersecting pixel is included.
func (b Bbox) PixelWindow(gt GeoTransform, rasterWidth, rasterHeight int) (Window, error) {
	if gt[1] == 0 || gt[5] == 0 {
		return Window{}, fmt.Errorf("degenerate geotransform: zero pixel size")
	}

	minX := floorDiv(b.XMin-gt[0], gt[1])
	maxX := ceilDiv(b.XMax-gt[0], gt[1])
	// Raster rows run top-down, so the north edge maps to the smaller
	// row index.
	minY := floorDiv(b.YMax-gt[3], gt[5])
	maxY := ceilDiv(b.YMin-gt[3], gt[5])

	startX := clamp(minX, 0, rasterWidth)
	endX := clamp(maxX, 0, rasterWidth)
	startY := clamp(minY, 0, rasterHeight)
	endY := clamp(maxY, 0, rasterHeight)

	return Window{X: startX, Y: startY, Width: endX - startX, Height: endY - startY}, nil
}

func floorDiv(num, den float64) int {
	v := num / den
	i := int(v)
	if v < 0 && float64(i) != v {
		i--
	}
	return i
}

func ceilDiv(num, den float64) int {
	v := num / den
	i := int(v)
	if v > 0 && float64(i) != v {
		i++
	}
	return i
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
