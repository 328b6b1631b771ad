// Package colormap maps normalized scalar rows to RGB image rows
// through a closed registry of named continuous color maps.
package colormap

import (
	"fmt"
	"math"
	"sort"

	"github.com/strataviz/frameserve/internal/shared"
)

// Default is the colormap used when a query names none.
const Default = "viridis"

// Map is a continuous color transfer function defined by evenly spaced
// RGB anchor points with linear interpolation between them. The zero
// value is not usable; obtain instances through Lookup.
type Map struct {
	name    string
	anchors [][3]float64
}

func (m Map) Name() string {
	return m.name
}

// At returns the color at gradient position t. Positions outside
// [0, 1] clamp to the gradient's endpoints.
func (m Map) At(t float64) (r, g, b byte) {
	if t <= 0 {
		a := m.anchors[0]
		return roundByte(a[0]), roundByte(a[1]), roundByte(a[2])
	}
	if t >= 1 {
		a := m.anchors[len(m.anchors)-1]
		return roundByte(a[0]), roundByte(a[1]), roundByte(a[2])
	}

	pos := t * float64(len(m.anchors)-1)
	i := int(pos)
	frac := pos - float64(i)

	lo, hi := m.anchors[i], m.anchors[i+1]
	return roundByte(lo[0] + (hi[0]-lo[0])*frac),
		roundByte(lo[1] + (hi[1]-lo[1])*frac),
		roundByte(lo[2] + (hi[2]-lo[2])*frac)
}

// Apply colorizes a sample row into a flat 3xN byte buffer in
// row-major RGB order. Samples are min-max normalized over the row
// itself; a constant row maps every sample to the gradient midpoint.
func (m Map) Apply(row []byte) ([]byte, error) {
	if len(row) == 0 {
		return nil, fmt.Errorf("apply colormap %s: empty row: %w", m.name, shared.ErrInvalidInput)
	}

	minV, maxV := row[0], row[0]
	for _, s := range row {
		if s < minV {
			minV = s
		}
		if s > maxV {
			maxV = s
		}
	}

	out := make([]byte, 3*len(row))
	if minV == maxV {
		r, g, b := m.At(0.5)
		for i := range row {
			out[3*i], out[3*i+1], out[3*i+2] = r, g, b
		}
		return out, nil
	}

	span := float64(maxV - minV)
	for i, s := range row {
		t := float64(s-minV) / span
		out[3*i], out[3*i+1], out[3*i+2] = m.At(t)
	}
	return out, nil
}

func roundByte(v float64) byte {
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return byte(r)
}

// Lookup resolves a colormap by name. Unknown names fail with
// shared.ErrUnknownColormap; callers validate names with Lookup before
// doing any decompression work.
func Lookup(name string) (Map, error) {
	m, ok := registry[name]
	if !ok {
		return Map{}, fmt.Errorf("colormap %q: %w", name, shared.ErrUnknownColormap)
	}
	return m, nil
}

// Names returns the registered colormap names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// The registry is fixed at build time. Anchor values follow the
// standard published gradients for each name, sampled at even
// intervals.
var registry = map[string]Map{
	"viridis": {name: "viridis", anchors: [][3]float64{
		{68, 1, 84}, {72, 40, 120}, {62, 74, 137}, {49, 104, 142}, {38, 130, 142},
		{31, 158, 137}, {53, 183, 121}, {109, 205, 89}, {253, 231, 37},
	}},
	"plasma": {name: "plasma", anchors: [][3]float64{
		{13, 8, 135}, {75, 3, 161}, {125, 3, 168}, {168, 34, 150}, {203, 70, 121},
		{229, 107, 93}, {248, 148, 65}, {253, 195, 40}, {240, 249, 33},
	}},
	"inferno": {name: "inferno", anchors: [][3]float64{
		{0, 0, 4}, {31, 12, 72}, {85, 15, 109}, {136, 34, 106}, {186, 54, 85},
		{227, 89, 51}, {249, 140, 10}, {249, 201, 50}, {252, 255, 164},
	}},
	"magma": {name: "magma", anchors: [][3]float64{
		{0, 0, 4}, {28, 16, 68}, {79, 18, 123}, {129, 37, 129}, {181, 54, 122},
		{229, 80, 100}, {251, 135, 97}, {254, 194, 135}, {252, 253, 191},
	}},
	"hot": {name: "hot", anchors: [][3]float64{
		{11, 0, 0}, {94, 0, 0}, {179, 0, 0}, {255, 7, 0}, {255, 91, 0},
		{255, 175, 0}, {255, 252, 8}, {255, 255, 128}, {255, 255, 255},
	}},
	"cool": {name: "cool", anchors: [][3]float64{
		{0, 255, 255}, {255, 0, 255},
	}},
	"gray": {name: "gray", anchors: [][3]float64{
		{0, 0, 0}, {255, 255, 255},
	}},
	"jet": {name: "jet", anchors: [][3]float64{
		{0, 0, 128}, {0, 0, 255}, {0, 155, 255}, {28, 255, 227}, {127, 255, 128},
		{227, 255, 28}, {255, 155, 0}, {255, 17, 0}, {128, 0, 0},
	}},
	"turbo": {name: "turbo", anchors: [][3]float64{
		{48, 18, 59}, {62, 117, 239}, {25, 188, 219}, {65, 238, 129}, {165, 252, 59},
		{237, 217, 38}, {251, 139, 35}, {230, 70, 20}, {122, 4, 3},
	}},
	"rainbow": {name: "rainbow", anchors: [][3]float64{
		{128, 0, 255}, {64, 98, 248}, {0, 183, 235}, {64, 240, 196}, {128, 255, 146},
		{191, 240, 97}, {255, 183, 49}, {255, 98, 24}, {255, 0, 0},
	}},
}
