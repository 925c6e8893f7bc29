package bvh

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/narrowphase/spatialmath"
)

// FitFunc computes a bounding volume containing the given points. The builder
// calls it once per tree node with the vertices of the node's triangles.
type FitFunc[B Volume[B]] func(points []r3.Vector) B

// covarianceAxes derives an orthonormal, right-handed set of axes from the
// eigenvectors of the points' covariance matrix, ordered by decreasing
// variance so axis 0 spans the dominant direction.
func covarianceAxes(points []r3.Vector) *spatialmath.RotationMatrix {
	n := float64(len(points))
	var mean r3.Vector
	for _, p := range points {
		mean = mean.Add(p)
	}
	mean = mean.Mul(1 / n)

	var cxx, cxy, cxz, cyy, cyz, czz float64
	for _, p := range points {
		d := p.Sub(mean)
		cxx += d.X * d.X
		cxy += d.X * d.Y
		cxz += d.X * d.Z
		cyy += d.Y * d.Y
		cyz += d.Y * d.Z
		czz += d.Z * d.Z
	}
	cov := mat.NewSymDense(3, []float64{
		cxx / n, cxy / n, cxz / n,
		cxy / n, cyy / n, cyz / n,
		cxz / n, cyz / n, czz / n,
	})

	var eig mat.EigenSym
	if !eig.Factorize(cov, true) {
		return spatialmath.NewIdentityRotationMatrix()
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// Eigenvalues come back in ascending order; take the eigenvectors in
	// reverse and rebuild the last axis from a cross product so the basis is
	// exactly orthonormal and right-handed.
	a0 := r3.Vector{X: vecs.At(0, 2), Y: vecs.At(1, 2), Z: vecs.At(2, 2)}
	a1 := r3.Vector{X: vecs.At(0, 1), Y: vecs.At(1, 1), Z: vecs.At(2, 1)}
	a2 := a0.Cross(a1)
	return spatialmath.NewRotationMatrix([9]float64{
		a0.X, a0.Y, a0.Z,
		a1.X, a1.Y, a1.Z,
		a2.X, a2.Y, a2.Z,
	})
}

// axisExtents projects the points onto each row of the axes and returns the
// per-axis minima and maxima.
func axisExtents(points []r3.Vector, axes *spatialmath.RotationMatrix) (lo, hi [3]float64) {
	for i := 0; i < 3; i++ {
		lo[i] = math.Inf(1)
		hi[i] = math.Inf(-1)
	}
	for _, p := range points {
		for i := 0; i < 3; i++ {
			v := axes.Row(i).Dot(p)
			lo[i] = math.Min(lo[i], v)
			hi[i] = math.Max(hi[i], v)
		}
	}
	return lo, hi
}

// FitOBB fits an oriented bounding box to the given points, with axes from the
// covariance eigenvectors.
func FitOBB(points []r3.Vector) OBB {
	axes := covarianceAxes(points)
	lo, hi := axisExtents(points, axes)
	var center r3.Vector
	for i := 0; i < 3; i++ {
		center = center.Add(axes.Row(i).Mul((lo[i] + hi[i]) / 2))
	}
	return OBB{
		Rot: axes,
		Pos: center,
		HalfSize: r3.Vector{
			X: (hi[0] - lo[0]) / 2,
			Y: (hi[1] - lo[1]) / 2,
			Z: (hi[2] - lo[2]) / 2,
		},
	}
}

// FitRSS fits a rectangle-swept sphere: the rectangle spans the two dominant
// covariance axes and the sweep radius covers the spread along the third.
func FitRSS(points []r3.Vector) RSS {
	axes := covarianceAxes(points)
	lo, hi := axisExtents(points, axes)
	var center r3.Vector
	for i := 0; i < 3; i++ {
		center = center.Add(axes.Row(i).Mul((lo[i] + hi[i]) / 2))
	}
	return RSS{
		Rot:    axes,
		Pos:    center,
		L:      [2]float64{hi[0] - lo[0], hi[1] - lo[1]},
		Radius: (hi[2] - lo[2]) / 2,
	}
}

// FitKIOS fits an intersection-of-spheres volume. Every sphere contains all of
// the points; elongated regions get two extra spheres shifted along the
// dominant axis, which intersect to a tighter lens than the bounding sphere
// alone.
func FitKIOS(points []r3.Vector) KIOS {
	box := FitOBB(points)
	spheres := []Sphere{boundingSphereAt(box.Pos, points)}
	if box.HalfSize.X > 1.5*box.HalfSize.Z {
		shift := box.Rot.Row(0).Mul(box.HalfSize.X / 2)
		spheres = append(spheres,
			boundingSphereAt(box.Pos.Add(shift), points),
			boundingSphereAt(box.Pos.Sub(shift), points),
		)
	}
	return KIOS{Spheres: spheres, Box: box}
}

// FitOBBRSS fits both halves of the hybrid volume over the same points.
func FitOBBRSS(points []r3.Vector) OBBRSS {
	return OBBRSS{Box: FitOBB(points), Rss: FitRSS(points)}
}

func boundingSphereAt(center r3.Vector, points []r3.Vector) Sphere {
	r := 0.0
	for _, p := range points {
		r = math.Max(r, p.Sub(center).Norm())
	}
	return Sphere{Center: center, Radius: r}
}
