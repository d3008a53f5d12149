package worm

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// EigenwormCount is the number of basis shapes in the reference basis.
	EigenwormCount = 6
	// EigenAngleCount is the dimensionality of the tangent-angle vectors
	// the basis spans: one angle per pair of adjacent skeleton points, so
	// one fewer than the 49 skeleton points.
	EigenAngleCount = SkeletonPoints - 1
)

// EigenwormBasis is the fixed 6x48 matrix of reference posture shapes,
// trained once offline from a reference population. It is read-only and
// safe to share across concurrent frame computations.
type EigenwormBasis struct {
	vectors *mat.Dense
}

// NewEigenwormBasis builds a basis from 6 rows of 48 values each.
func NewEigenwormBasis(rows [][]float64) (*EigenwormBasis, error) {
	if len(rows) != EigenwormCount {
		return nil, fmt.Errorf("eigenworm basis needs %d vectors, got %d", EigenwormCount, len(rows))
	}
	m := mat.NewDense(EigenwormCount, EigenAngleCount, nil)
	for i, row := range rows {
		if len(row) != EigenAngleCount {
			return nil, fmt.Errorf("eigenworm vector %d has %d components, want %d", i, len(row), EigenAngleCount)
		}
		m.SetRow(i, row)
	}
	return &EigenwormBasis{vectors: m}, nil
}

// LoadEigenwormBasis reads a basis from a JSON file holding a 6x48 array
// of arrays.
func LoadEigenwormBasis(path string) (*EigenwormBasis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read eigenworm basis: %w", err)
	}
	var rows [][]float64
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse eigenworm basis JSON: %w", err)
	}
	return NewEigenwormBasis(rows)
}

// ProjectAngles projects a zero-meaned copy of the 48-component tangent
// angle vector onto each basis shape via inner product. All projections are
// NaN when the input has the wrong dimension or contains undefined angles.
func (b *EigenwormBasis) ProjectAngles(angles []float64) [EigenwormCount]float64 {
	var out [EigenwormCount]float64
	for i := range out {
		out[i] = undefined()
	}
	if len(angles) != EigenAngleCount {
		return out
	}
	centered := make([]float64, EigenAngleCount)
	var sum float64
	for _, a := range angles {
		if !isDefined(a) {
			return out
		}
		sum += a
	}
	mean := sum / EigenAngleCount
	for i, a := range angles {
		centered[i] = a - mean
	}
	for i := 0; i < EigenwormCount; i++ {
		out[i] = floats.Dot(b.vectors.RawRowView(i), centered)
	}
	return out
}

// Project computes the 48 inter-point tangent angles of the skeleton,
// unwraps them so adjacent angles never jump across the ±π seam, and
// projects the zero-meaned result onto the basis. Projections are NaN when
// the skeleton does not resolve 48 segments (wrong point count or a
// zero-length segment).
func (b *EigenwormBasis) Project(skel []Point) [EigenwormCount]float64 {
	var nan [EigenwormCount]float64
	for i := range nan {
		nan[i] = undefined()
	}
	if len(skel) != SkeletonPoints {
		return nan
	}
	angles := make([]float64, EigenAngleCount)
	for i := 0; i < EigenAngleCount; i++ {
		dx := skel[i+1].X - skel[i].X
		dy := skel[i+1].Y - skel[i].Y
		if dx == 0 && dy == 0 {
			return nan
		}
		angles[i] = math.Atan2(dy, dx)
		if i > 0 {
			for angles[i]-angles[i-1] > math.Pi {
				angles[i] -= 2 * math.Pi
			}
			for angles[i]-angles[i-1] < -math.Pi {
				angles[i] += 2 * math.Pi
			}
		}
	}
	return b.ProjectAngles(angles)
}
