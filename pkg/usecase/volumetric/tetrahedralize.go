// 指示: miu200521358
package volumetric

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/miu200521358/mu_msmfe/pkg/domain/merrors"
	"github.com/miu200521358/mu_msmfe/pkg/domain/mesh"
)

// Tetrahedralize は閉多様体の表面メッシュ内部をBCC格子で四面体分割する。
// 表面形状を包む格子から内部要素のみを残し、品質検証済みの四面体メッシュを返す。
// 同一入力・同一パラメータに対して要素数・品質指標は再現される。
func Tetrahedralize(surface *mesh.SurfaceMesh, cfg QualityConfig) (*mesh.TetMesh, error) {
	if surface == nil {
		return nil, merrors.NewMeshQualityError("表面メッシュが未設定です", nil)
	}
	if !surface.IsClosedManifold() {
		return nil, merrors.NewMeshQualityError(
			fmt.Sprintf("表面メッシュ %s が閉多様体ではないため四面体分割できません", surface.Name), nil)
	}

	min, max := surface.Bounds()
	cell := cfg.cellSize(min, max)
	buffer := cfg.BoundsBuffer
	if buffer <= 0 {
		buffer = cell
	}
	origin := r3.Vec{X: min.X - buffer, Y: min.Y - buffer, Z: min.Z - buffer}
	limit := r3.Vec{X: max.X + buffer, Y: max.Y + buffer, Z: max.Z + buffer}

	nx := int((limit.X-origin.X)/cell) + 1
	ny := int((limit.Y-origin.Y)/cell) + 1
	nz := int((limit.Z-origin.Z)/cell) + 1

	lattice := newBccLattice(origin, cell, nx, ny, nz)
	candidates := lattice.tetrahedra()

	inside := map[int]bool{}
	nodeInside := func(id int) bool {
		v, ok := inside[id]
		if !ok {
			v = surface.Contains(lattice.node(id))
			inside[id] = v
		}
		return v
	}

	kept := make([][4]int, 0, len(candidates))
	for _, tet := range candidates {
		if cfg.PreserveSurface {
			// 表面を突き抜けないよう、全節点が内部の要素のみ残す。
			if nodeInside(tet[0]) && nodeInside(tet[1]) && nodeInside(tet[2]) && nodeInside(tet[3]) {
				kept = append(kept, tet)
			}
			continue
		}
		centroid := r3.Scale(0.25, r3.Add(
			r3.Add(lattice.node(tet[0]), lattice.node(tet[1])),
			r3.Add(lattice.node(tet[2]), lattice.node(tet[3]))))
		if surface.Contains(centroid) {
			kept = append(kept, tet)
		}
	}
	if len(kept) == 0 {
		return nil, merrors.NewMeshQualityError(
			fmt.Sprintf("表面メッシュ %s の内部に要素を生成できませんでした(要素体積が大きすぎる可能性)", surface.Name), nil)
	}

	// 使用節点のみへ詰め替える。走査順が固定なので番号付けも決定的。
	remap := map[int]int{}
	tm := &mesh.TetMesh{Name: surface.Name}
	for _, tet := range kept {
		compact := [4]int{}
		for i, id := range tet {
			newID, ok := remap[id]
			if !ok {
				newID = len(tm.Vertices)
				remap[id] = newID
				tm.Vertices = append(tm.Vertices, lattice.node(id))
			}
			compact[i] = newID
		}
		compact = orientPositive(tm.Vertices, compact)
		tm.Tets = append(tm.Tets, compact)
	}

	if err := CheckQuality(tm, cfg, true); err != nil {
		return nil, err
	}
	return tm, nil
}

// orientPositive は要素の符号付き体積が正になるよう頂点順を揃える。
func orientPositive(vertices []r3.Vec, tet [4]int) [4]int {
	if mesh.TetVolume(vertices[tet[0]], vertices[tet[1]], vertices[tet[2]], vertices[tet[3]]) < 0 {
		tet[2], tet[3] = tet[3], tet[2]
	}
	return tet
}

// bccLattice は体心立方格子の節点集合を表す。
// 節点IDは格子角節点、セル中心節点の順で一意に割り当てる。
type bccLattice struct {
	origin     r3.Vec
	cell       float64
	nx, ny, nz int
}

// newBccLattice は格子を生成する。
func newBccLattice(origin r3.Vec, cell float64, nx, ny, nz int) *bccLattice {
	return &bccLattice{origin: origin, cell: cell, nx: nx, ny: ny, nz: nz}
}

// cornerID は格子角節点のIDを返す。
func (l *bccLattice) cornerID(x, y, z int) int {
	return (z*(l.ny+1)+y)*(l.nx+1) + x
}

// centerID はセル中心節点のIDを返す。
func (l *bccLattice) centerID(x, y, z int) int {
	base := (l.nx + 1) * (l.ny + 1) * (l.nz + 1)
	return base + (z*l.ny+y)*l.nx + x
}

// node はID対応の節点座標を返す。
func (l *bccLattice) node(id int) r3.Vec {
	base := (l.nx + 1) * (l.ny + 1) * (l.nz + 1)
	if id < base {
		x := id % (l.nx + 1)
		y := (id / (l.nx + 1)) % (l.ny + 1)
		z := id / ((l.nx + 1) * (l.ny + 1))
		return r3.Vec{
			X: l.origin.X + float64(x)*l.cell,
			Y: l.origin.Y + float64(y)*l.cell,
			Z: l.origin.Z + float64(z)*l.cell,
		}
	}
	id -= base
	x := id % l.nx
	y := (id / l.nx) % l.ny
	z := id / (l.nx * l.ny)
	half := 0.5 * l.cell
	return r3.Vec{
		X: l.origin.X + float64(x)*l.cell + half,
		Y: l.origin.Y + float64(y)*l.cell + half,
		Z: l.origin.Z + float64(z)*l.cell + half,
	}
}

// tetrahedra は隣接セル対の共有面ごとに4要素を張るBCC分割を列挙する。
func (l *bccLattice) tetrahedra() [][4]int {
	tets := [][4]int{}
	for z := 0; z < l.nz; z++ {
		for y := 0; y < l.ny; y++ {
			for x := 0; x < l.nx; x++ {
				c1 := l.centerID(x, y, z)
				// +X 方向の隣接セル。共有面は x+1 平面。
				if x+1 < l.nx {
					c2 := l.centerID(x+1, y, z)
					face := [4]int{
						l.cornerID(x+1, y, z),
						l.cornerID(x+1, y+1, z),
						l.cornerID(x+1, y+1, z+1),
						l.cornerID(x+1, y, z+1),
					}
					tets = appendFaceTets(tets, c1, c2, face)
				}
				// +Y 方向の隣接セル。
				if y+1 < l.ny {
					c2 := l.centerID(x, y+1, z)
					face := [4]int{
						l.cornerID(x, y+1, z),
						l.cornerID(x+1, y+1, z),
						l.cornerID(x+1, y+1, z+1),
						l.cornerID(x, y+1, z+1),
					}
					tets = appendFaceTets(tets, c1, c2, face)
				}
				// +Z 方向の隣接セル。
				if z+1 < l.nz {
					c2 := l.centerID(x, y, z+1)
					face := [4]int{
						l.cornerID(x, y, z+1),
						l.cornerID(x+1, y, z+1),
						l.cornerID(x+1, y+1, z+1),
						l.cornerID(x, y+1, z+1),
					}
					tets = appendFaceTets(tets, c1, c2, face)
				}
			}
		}
	}
	return tets
}

// appendFaceTets は共有面の4エッジそれぞれへ、両セル中心と結ぶ要素を追加する。
func appendFaceTets(tets [][4]int, c1, c2 int, face [4]int) [][4]int {
	for i := 0; i < 4; i++ {
		tets = append(tets, [4]int{c1, c2, face[i], face[(i+1)%4]})
	}
	return tets
}
