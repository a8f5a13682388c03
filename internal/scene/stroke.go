package scene

import (
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"canvas-composer/pkg/geometry"
)

// ResampleStroke replaces raw pointer samples with points evenly spaced
// along an Akima spline through them, smoothing out event-rate jitter.
// Strokes too short to fit a spline are returned as a copy.
func ResampleStroke(points []geometry.Point2D, spacing float64) []geometry.Point2D {
	distinct := dedupePoints(points)
	if len(distinct) < 3 || spacing <= 0 {
		return append([]geometry.Point2D{}, points...)
	}

	// Parametrize by cumulative chord length; dedupePoints guarantees the
	// parameter is strictly increasing.
	ts := make([]float64, len(distinct))
	xs := make([]float64, len(distinct))
	ys := make([]float64, len(distinct))
	for i, p := range distinct {
		if i > 0 {
			ts[i] = ts[i-1] + p.Distance(distinct[i-1])
		}
		xs[i] = p.X
		ys[i] = p.Y
	}
	total := ts[len(ts)-1]
	if total < 2*spacing {
		return append([]geometry.Point2D{}, points...)
	}

	var sx, sy interp.AkimaSpline
	if err := sx.Fit(ts, xs); err != nil {
		return append([]geometry.Point2D{}, points...)
	}
	if err := sy.Fit(ts, ys); err != nil {
		return append([]geometry.Point2D{}, points...)
	}

	n := int(total/spacing) + 1
	out := make([]geometry.Point2D, 0, n+1)
	for i := 0; i < n; i++ {
		t := float64(i) * spacing
		out = append(out, geometry.Point2D{X: sx.Predict(t), Y: sy.Predict(t)})
	}
	out = append(out, distinct[len(distinct)-1])
	return out
}

// StraightenStroke fits the principal axis through the stroke points and
// returns the segment covering their extent along it, for converting a
// roughly straight freehand stroke into a line.
func StraightenStroke(points []geometry.Point2D) (start, end geometry.Point2D) {
	distinct := dedupePoints(points)
	if len(distinct) < 2 {
		if len(points) > 0 {
			return points[0], points[len(points)-1]
		}
		return
	}

	data := mat.NewDense(len(distinct), 2, nil)
	for i, p := range distinct {
		data.Set(i, 0, p.X)
		data.Set(i, 1, p.Y)
	}

	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, data, nil)

	var eig mat.EigenSym
	if !eig.Factorize(&cov, true) {
		return distinct[0], distinct[len(distinct)-1]
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// Eigenvalues come back ascending; the principal axis is the last column.
	dir := geometry.Point2D{X: vecs.At(0, 1), Y: vecs.At(1, 1)}
	c := geometry.Centroid(distinct)

	tMin, tMax := 0.0, 0.0
	for i, p := range distinct {
		t := (p.X-c.X)*dir.X + (p.Y-c.Y)*dir.Y
		if i == 0 || t < tMin {
			tMin = t
		}
		if i == 0 || t > tMax {
			tMax = t
		}
	}
	start = geometry.Point2D{X: c.X + tMin*dir.X, Y: c.Y + tMin*dir.Y}
	end = geometry.Point2D{X: c.X + tMax*dir.X, Y: c.Y + tMax*dir.Y}
	return start, end
}

func dedupePoints(points []geometry.Point2D) []geometry.Point2D {
	out := make([]geometry.Point2D, 0, len(points))
	for _, p := range points {
		if len(out) > 0 && p.Distance(out[len(out)-1]) < 1e-9 {
			continue
		}
		out = append(out, p)
	}
	return out
}
