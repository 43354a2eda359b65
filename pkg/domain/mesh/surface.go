// 指示: miu200521358
// Package mesh は表面メッシュ・四面体メッシュのドメイン型を提供する。
package mesh

import (
	"fmt"
	"math"

	"github.com/tiendc/go-deepcopy"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/miu200521358/mu_msmfe/pkg/domain/merrors"
	"github.com/miu200521358/mu_msmfe/pkg/domain/mmath"
)

const degenerateAreaEpsilon = 1e-12

// SurfaceMesh は三角形分割済みの表面メッシュを表す。
// 所属ボディのローカル座標系・基準姿勢で表現され、束縛後は不変として扱う。
type SurfaceMesh struct {
	Name      string
	Vertices  []r3.Vec
	Triangles [][3]int
}

// Clone はメッシュの深い複製を返す。
func (m *SurfaceMesh) Clone() (*SurfaceMesh, error) {
	clone := &SurfaceMesh{}
	if err := deepcopy.Copy(clone, m); err != nil {
		return nil, fmt.Errorf("メッシュ複製に失敗しました: %w", err)
	}
	return clone, nil
}

// Transformed は剛体変換を全頂点へ適用した新しいメッシュを返す。
// 位相(三角形構成)は複製され、変換されない。
func (m *SurfaceMesh) Transformed(t mmath.RigidTransform) (*SurfaceMesh, error) {
	placed, err := m.Clone()
	if err != nil {
		return nil, err
	}
	for i, v := range placed.Vertices {
		placed.Vertices[i] = t.ApplyR3(v)
	}
	return placed, nil
}

// Bounds は軸平行境界箱の最小・最大点を返す。
func (m *SurfaceMesh) Bounds() (r3.Vec, r3.Vec) {
	min := r3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max := r3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, v := range m.Vertices {
		min.X = math.Min(min.X, v.X)
		min.Y = math.Min(min.Y, v.Y)
		min.Z = math.Min(min.Z, v.Z)
		max.X = math.Max(max.X, v.X)
		max.Y = math.Max(max.Y, v.Y)
		max.Z = math.Max(max.Z, v.Z)
	}
	return min, max
}

// TriangleArea は三角形の面積を返す。
func TriangleArea(a, b, c r3.Vec) float64 {
	cross := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
	return 0.5 * r3.Norm(cross)
}

// Validate はメッシュの基本的な健全性を検証する。
// 頂点参照範囲・縮退三角形・非多様体エッジを検査し、違反時はメッシュ束縛エラーを返す。
func (m *SurfaceMesh) Validate() error {
	if len(m.Vertices) == 0 || len(m.Triangles) == 0 {
		return merrors.NewMeshBindingError(
			fmt.Sprintf("メッシュ %s に頂点または三角形がありません", m.Name), nil)
	}
	edgeUse := map[[2]int]int{}
	for ti, tri := range m.Triangles {
		for _, vi := range tri {
			if vi < 0 || vi >= len(m.Vertices) {
				return merrors.NewMeshBindingError(
					fmt.Sprintf("メッシュ %s の三角形 %d が範囲外の頂点 %d を参照しています", m.Name, ti, vi), nil)
			}
		}
		if tri[0] == tri[1] || tri[1] == tri[2] || tri[2] == tri[0] {
			return merrors.NewMeshBindingError(
				fmt.Sprintf("メッシュ %s の三角形 %d が同一頂点を重複参照しています", m.Name, ti), nil)
		}
		if TriangleArea(m.Vertices[tri[0]], m.Vertices[tri[1]], m.Vertices[tri[2]]) <= degenerateAreaEpsilon {
			return merrors.NewMeshBindingError(
				fmt.Sprintf("メッシュ %s の三角形 %d は面積ゼロです", m.Name, ti), nil)
		}
		for e := 0; e < 3; e++ {
			edge := orderedEdge(tri[e], tri[(e+1)%3])
			edgeUse[edge]++
			if edgeUse[edge] > 2 {
				return merrors.NewMeshBindingError(
					fmt.Sprintf("メッシュ %s のエッジ (%d,%d) が3枚以上の面に共有されています", m.Name, edge[0], edge[1]), nil)
			}
		}
	}
	return nil
}

// IsClosedManifold は全エッジがちょうど2枚の面で共有される閉多様体か判定する。
func (m *SurfaceMesh) IsClosedManifold() bool {
	if m.Validate() != nil {
		return false
	}
	edgeUse := map[[2]int]int{}
	for _, tri := range m.Triangles {
		for e := 0; e < 3; e++ {
			edgeUse[orderedEdge(tri[e], tri[(e+1)%3])]++
		}
	}
	for _, count := range edgeUse {
		if count != 2 {
			return false
		}
	}
	return true
}

// Contains は点がメッシュ内部にあるか判定する(レイキャストの交差回数パリティ)。
// 閉多様体メッシュを前提とする。
// レイ方向は軸からわずかに傾けてあり、軸平行メッシュのエッジ・頂点を
// 正確に貫通して交差が二重計上される縮退を避ける。
func (m *SurfaceMesh) Contains(p r3.Vec) bool {
	crossings := 0
	dir := r3.Vec{X: 1, Y: 7.31e-7, Z: 3.97e-7}
	for _, tri := range m.Triangles {
		if rayIntersectsTriangle(p, dir, m.Vertices[tri[0]], m.Vertices[tri[1]], m.Vertices[tri[2]]) {
			crossings++
		}
	}
	return crossings%2 == 1
}

// rayIntersectsTriangle は Möller–Trumbore 法によるレイと三角形の交差判定を行う。
func rayIntersectsTriangle(origin, dir, a, b, c r3.Vec) bool {
	const eps = 1e-12
	e1 := r3.Sub(b, a)
	e2 := r3.Sub(c, a)
	h := r3.Cross(dir, e2)
	det := r3.Dot(e1, h)
	if math.Abs(det) < eps {
		return false
	}
	inv := 1.0 / det
	s := r3.Sub(origin, a)
	u := inv * r3.Dot(s, h)
	if u < 0 || u > 1 {
		return false
	}
	q := r3.Cross(s, e1)
	v := inv * r3.Dot(dir, q)
	if v < 0 || u+v > 1 {
		return false
	}
	t := inv * r3.Dot(e2, q)
	return t > eps
}

// orderedEdge は頂点番号の小さい順に並べたエッジキーを返す。
func orderedEdge(a, b int) [2]int {
	if a < b {
		return [2]int{a, b}
	}
	return [2]int{b, a}
}
