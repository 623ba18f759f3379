// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func BenchmarkDH(b *testing.B) {
	var m, n, tz, rx, rz M4
	b.Run("M4.DH", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			m.DH(0.5, 0.25, -0.75)
		}
	})
	b.Run("TzRxRz", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			tz.Translate(0, 0, 0.5)
			rx.RotateX(-0.75)
			rz.RotateZ(0.25)
			n.Mul(&tz, &rx)
			n.Mul(&n, &rz)
		}
	})
	b.Log(m, n)
}

func BenchmarkCross(b *testing.B) {
	l := V3{1, 0, 0}
	r := V3{0, 1, 0}
	var v, u V3
	b.Run("V3.Cross", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			v.Cross(&l, &r)
		}
	})
	b.Run("bCrossValue", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			u = bCrossValue(l, r)
		}
	})
	b.Log(v, u)
}

// l, r and v passed on the stack.
func bCrossValue(l, r V3) (v V3) {
	v[0] = l[1]*r[2] - l[2]*r[1]
	v[1] = l[2]*r[0] - l[0]*r[2]
	v[2] = l[0]*r[1] - l[1]*r[0]
	return
}

func BenchmarkMul(b *testing.B) {
	var l, r, m M4
	l.Translate(1, 2, 3)
	r.RotateZ(0.5)
	var n mgl32.Mat4
	ml, mr := l.Mat4(), r.Mat4()
	b.Run("M4.Mul", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			m.Mul(&l, &r)
		}
	})
	b.Run("mgl32.Mat4.Mul4", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			n = ml.Mul4(mr)
		}
	})
	b.Log(m, n)
}
