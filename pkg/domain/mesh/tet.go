// 指示: miu200521358
package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/miu200521358/mu_msmfe/pkg/domain/mmath"
)

// TetMesh は有限要素解析向けの四面体メッシュを表す。
type TetMesh struct {
	Name     string
	Vertices []r3.Vec
	Tets     [][4]int
}

// TetVolume は四面体の符号付き体積を返す。
// 負値は要素の反転(負ヤコビアン)を意味する。
func TetVolume(a, b, c, d r3.Vec) float64 {
	return r3.Dot(r3.Sub(b, a), r3.Cross(r3.Sub(c, a), r3.Sub(d, a))) / 6.0
}

// Volume は指定要素の符号付き体積を返す。
func (m *TetMesh) Volume(i int) float64 {
	t := m.Tets[i]
	return TetVolume(m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]], m.Vertices[t[3]])
}

// MinDihedralDeg は指定要素の最小二面角(度)を返す。
func (m *TetMesh) MinDihedralDeg(i int) float64 {
	t := m.Tets[i]
	p := [4]r3.Vec{m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]], m.Vertices[t[3]]}

	// 各面の外向き法線。面 f は頂点 f を含まない面とする。
	normals := [4]r3.Vec{}
	for f := 0; f < 4; f++ {
		idx := [3]int{}
		k := 0
		for v := 0; v < 4; v++ {
			if v != f {
				idx[k] = v
				k++
			}
		}
		n := r3.Cross(r3.Sub(p[idx[1]], p[idx[0]]), r3.Sub(p[idx[2]], p[idx[0]]))
		// 対頂点と反対方向へ向ける。
		if r3.Dot(n, r3.Sub(p[f], p[idx[0]])) > 0 {
			n = r3.Scale(-1, n)
		}
		normals[f] = n
	}

	minAngle := 180.0
	for fa := 0; fa < 4; fa++ {
		for fb := fa + 1; fb < 4; fb++ {
			na, nb := normals[fa], normals[fb]
			la, lb := r3.Norm(na), r3.Norm(nb)
			if la <= 0 || lb <= 0 {
				return 0
			}
			// 外向き法線のなす角 θ に対し、二面角は 180° - θ。
			cos := mmath.Clamp(r3.Dot(na, nb)/(la*lb), -1, 1)
			angle := 180.0 - mmath.RadToDeg(math.Acos(cos))
			minAngle = math.Min(minAngle, angle)
		}
	}
	return minAngle
}

// ComponentCount は面共有で連結した要素集合の個数を返す。
func (m *TetMesh) ComponentCount() int {
	if len(m.Tets) == 0 {
		return 0
	}
	faceToTets := map[[3]int][]int{}
	for ti, t := range m.Tets {
		for f := 0; f < 4; f++ {
			face := [3]int{}
			k := 0
			for v := 0; v < 4; v++ {
				if v != f {
					face[k] = t[v]
					k++
				}
			}
			sortFace(&face)
			faceToTets[face] = append(faceToTets[face], ti)
		}
	}

	visited := make([]bool, len(m.Tets))
	components := 0
	for start := range m.Tets {
		if visited[start] {
			continue
		}
		components++
		queue := []int{start}
		visited[start] = true
		for len(queue) > 0 {
			ti := queue[0]
			queue = queue[1:]
			t := m.Tets[ti]
			for f := 0; f < 4; f++ {
				face := [3]int{}
				k := 0
				for v := 0; v < 4; v++ {
					if v != f {
						face[k] = t[v]
						k++
					}
				}
				sortFace(&face)
				for _, other := range faceToTets[face] {
					if !visited[other] {
						visited[other] = true
						queue = append(queue, other)
					}
				}
			}
		}
	}
	return components
}

// sortFace は3頂点の面キーを昇順へ並べる。
func sortFace(face *[3]int) {
	if face[0] > face[1] {
		face[0], face[1] = face[1], face[0]
	}
	if face[1] > face[2] {
		face[1], face[2] = face[2], face[1]
	}
	if face[0] > face[1] {
		face[0], face[1] = face[1], face[0]
	}
}
