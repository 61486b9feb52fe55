package domain

import (
	"fmt"
	"math"
)

// Grid divides a bounding box into Rows x Cols equal cells.
type Grid struct {
	Rows int
	Cols int
	Box  Bounds
}

// GermanyGrid is the 10x5 grid the weather cache is fetched for.
var GermanyGrid = Grid{
	Rows: 10,
	Cols: 5,
	Box: Bounds{
		SouthWest: Point{Lat: 47.0, Lon: 5.5},
		NorthEast: Point{Lat: 55.2, Lon: 15.2},
	},
}

// GridCell is the static part of a cell: id, centroid and bounds.
type GridCell struct {
	ID     string
	Row    int
	Col    int
	Lat    float64
	Lon    float64
	Bounds Bounds
}

// Cells lists the grid cells row-major from the south-west corner. Ids are
// "cell-{row}-{col}" and centroids are rounded to four decimals.
func (g Grid) Cells() []GridCell {
	latStep := (g.Box.NorthEast.Lat - g.Box.SouthWest.Lat) / float64(g.Rows)
	lonStep := (g.Box.NorthEast.Lon - g.Box.SouthWest.Lon) / float64(g.Cols)

	cells := make([]GridCell, 0, g.Rows*g.Cols)
	for r := range g.Rows {
		for c := range g.Cols {
			latMin := g.Box.SouthWest.Lat + float64(r)*latStep
			lonMin := g.Box.SouthWest.Lon + float64(c)*lonStep
			cells = append(cells, GridCell{
				ID:  fmt.Sprintf("cell-%d-%d", r, c),
				Row: r,
				Col: c,
				Lat: round4(latMin + latStep/2),
				Lon: round4(lonMin + lonStep/2),
				Bounds: Bounds{
					SouthWest: Point{Lat: latMin, Lon: lonMin},
					NorthEast: Point{Lat: latMin + latStep, Lon: lonMin + lonStep},
				},
			})
		}
	}
	return cells
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
