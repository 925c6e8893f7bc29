// Package spatialmath defines the spatial mathematical operations used by the
// narrow-phase query engine: rigid poses, rotation matrices, relative frames,
// and the exact triangle-triangle kernels.
package spatialmath

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// RotationMatrix is a 3x3 rotation matrix stored in row-major order.
type RotationMatrix struct {
	mat [9]float64
}

// NewRotationMatrix creates a rotation matrix from the given row-major values.
// The values are assumed to form a valid (orthonormal, right-handed) rotation.
func NewRotationMatrix(mat [9]float64) *RotationMatrix {
	return &RotationMatrix{mat}
}

// NewIdentityRotationMatrix returns the identity rotation.
func NewIdentityRotationMatrix() *RotationMatrix {
	return &RotationMatrix{[9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}}
}

// QuatToRotationMatrix converts a unit quaternion to its rotation matrix form.
func QuatToRotationMatrix(q quat.Number) *RotationMatrix {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return &RotationMatrix{[9]float64{
		1 - 2*y*y - 2*z*z, 2*x*y - 2*z*w, 2*x*z + 2*y*w,
		2*x*y + 2*z*w, 1 - 2*x*x - 2*z*z, 2*y*z - 2*x*w,
		2*x*z - 2*y*w, 2*y*z + 2*x*w, 1 - 2*x*x - 2*y*y,
	}}
}

// Row returns the a vector representing a row of the rotation matrix.
func (rm *RotationMatrix) Row(i int) r3.Vector {
	return r3.Vector{X: rm.mat[3*i], Y: rm.mat[3*i+1], Z: rm.mat[3*i+2]}
}

// Col returns the a vector representing a column of the rotation matrix.
func (rm *RotationMatrix) Col(i int) r3.Vector {
	return r3.Vector{X: rm.mat[i], Y: rm.mat[3+i], Z: rm.mat[6+i]}
}

// At returns the float corresponding to the element at the specified row and column.
func (rm *RotationMatrix) At(row, col int) float64 {
	return rm.mat[3*row+col]
}

// Mat returns the underlying row-major values.
func (rm *RotationMatrix) Mat() [9]float64 {
	return rm.mat
}

// Transpose returns the transpose of the rotation matrix, which is also its inverse.
func (rm *RotationMatrix) Transpose() *RotationMatrix {
	m := rm.mat
	return &RotationMatrix{[9]float64{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}}
}

// Mul returns the matrix product rm * other.
func (rm *RotationMatrix) Mul(other *RotationMatrix) *RotationMatrix {
	var out [9]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[3*i+j] = rm.mat[3*i]*other.mat[j] + rm.mat[3*i+1]*other.mat[3+j] + rm.mat[3*i+2]*other.mat[6+j]
		}
	}
	return &RotationMatrix{out}
}

// MulVec returns the matrix-vector product rm * v.
func (rm *RotationMatrix) MulVec(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: rm.mat[0]*v.X + rm.mat[1]*v.Y + rm.mat[2]*v.Z,
		Y: rm.mat[3]*v.X + rm.mat[4]*v.Y + rm.mat[5]*v.Z,
		Z: rm.mat[6]*v.X + rm.mat[7]*v.Y + rm.mat[8]*v.Z,
	}
}

// TransposeMulVec returns the product of the matrix inverse with v, i.e. rm^T * v.
func (rm *RotationMatrix) TransposeMulVec(v r3.Vector) r3.Vector {
	return r3.Vector{
		X: rm.mat[0]*v.X + rm.mat[3]*v.Y + rm.mat[6]*v.Z,
		Y: rm.mat[1]*v.X + rm.mat[4]*v.Y + rm.mat[7]*v.Z,
		Z: rm.mat[2]*v.X + rm.mat[5]*v.Y + rm.mat[8]*v.Z,
	}
}
