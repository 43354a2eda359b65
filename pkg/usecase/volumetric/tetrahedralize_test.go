// 指示: miu200521358
package volumetric

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/miu200521358/mu_msmfe/pkg/domain/merrors"
	"github.com/miu200521358/mu_msmfe/pkg/domain/mesh"
)

// closedCube は一辺4の立方体表面メッシュを返す。
func closedCube() *mesh.SurfaceMesh {
	return &mesh.SurfaceMesh{
		Name: "cube",
		Vertices: []r3.Vec{
			{X: -2, Y: -2, Z: -2},
			{X: 2, Y: -2, Z: -2},
			{X: 2, Y: 2, Z: -2},
			{X: -2, Y: 2, Z: -2},
			{X: -2, Y: -2, Z: 2},
			{X: 2, Y: -2, Z: 2},
			{X: 2, Y: 2, Z: 2},
			{X: -2, Y: 2, Z: 2},
		},
		Triangles: [][3]int{
			{0, 1, 2}, {0, 2, 3},
			{4, 6, 5}, {4, 7, 6},
			{0, 5, 1}, {0, 4, 5},
			{3, 2, 6}, {3, 6, 7},
			{0, 3, 7}, {0, 7, 4},
			{1, 5, 6}, {1, 6, 2},
		},
	}
}

func cubeConfig() QualityConfig {
	return QualityConfig{
		MaxElementVolume:    1.0 / 12.0,
		MinDihedralAngleDeg: 10,
		PreserveSurface:     true,
	}
}

func TestTetrahedralizeCube(t *testing.T) {
	tm, err := Tetrahedralize(closedCube(), cubeConfig())
	if err != nil {
		t.Fatalf("tetrahedralize failed: %v", err)
	}
	if len(tm.Tets) == 0 {
		t.Fatalf("no elements generated")
	}
	cfg := cubeConfig()
	for i := range tm.Tets {
		volume := tm.Volume(i)
		if volume <= 0 {
			t.Fatalf("element %d volume not positive: %v", i, volume)
		}
		if volume > cfg.MaxElementVolume*(1.0+1e-9) {
			t.Fatalf("element %d volume %v exceeds bound %v", i, volume, cfg.MaxElementVolume)
		}
	}
	if got := tm.ComponentCount(); got != 1 {
		t.Fatalf("elements should be one connected component: %d", got)
	}
	// 全要素が立方体内部に収まる。
	for _, v := range tm.Vertices {
		if v.X < -2 || v.X > 2 || v.Y < -2 || v.Y > 2 || v.Z < -2 || v.Z > 2 {
			t.Fatalf("vertex outside cube: %v", v)
		}
	}
}

func TestTetrahedralizeIsDeterministic(t *testing.T) {
	first, err := Tetrahedralize(closedCube(), cubeConfig())
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := Tetrahedralize(closedCube(), cubeConfig())
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if len(first.Tets) != len(second.Tets) || len(first.Vertices) != len(second.Vertices) {
		t.Fatalf("element counts differ: %d/%d vs %d/%d",
			len(first.Tets), len(first.Vertices), len(second.Tets), len(second.Vertices))
	}
	for i := range first.Tets {
		if first.Tets[i] != second.Tets[i] {
			t.Fatalf("element %d differs: %v vs %v", i, first.Tets[i], second.Tets[i])
		}
	}
}

func TestTetrahedralizeRejectsOpenSurface(t *testing.T) {
	open := closedCube()
	open.Triangles = open.Triangles[:11]
	_, err := Tetrahedralize(open, cubeConfig())
	if !merrors.IsKind(err, merrors.KindMeshQuality) {
		t.Fatalf("want mesh quality error, got %v", err)
	}
}

func TestTetrahedralizeRejectsNilSurface(t *testing.T) {
	_, err := Tetrahedralize(nil, cubeConfig())
	if !merrors.IsKind(err, merrors.KindMeshQuality) {
		t.Fatalf("want mesh quality error, got %v", err)
	}
}

func TestTetrahedralizeRejectsOversizedElements(t *testing.T) {
	// 要素体積の上限が立方体自身より大きいと、内部に節点が入らず生成に失敗する。
	cfg := QualityConfig{MaxElementVolume: 1000, MinDihedralAngleDeg: 10, PreserveSurface: true}
	_, err := Tetrahedralize(closedCube(), cfg)
	if !merrors.IsKind(err, merrors.KindMeshQuality) {
		t.Fatalf("want mesh quality error, got %v", err)
	}
}

func TestCheckQualityRejectsInvertedElement(t *testing.T) {
	tm := &mesh.TetMesh{
		Vertices: []r3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}},
		Tets:     [][4]int{{0, 2, 1, 3}},
	}
	err := CheckQuality(tm, DefaultQualityConfig(), false)
	if !merrors.IsKind(err, merrors.KindMeshQuality) {
		t.Fatalf("want mesh quality error, got %v", err)
	}
}

func TestCheckQualityRejectsZeroVolumeElement(t *testing.T) {
	tm := &mesh.TetMesh{
		Vertices: []r3.Vec{{}, {X: 1}, {Y: 1}, {X: 1, Y: 1}},
		Tets:     [][4]int{{0, 1, 2, 3}},
	}
	err := CheckQuality(tm, DefaultQualityConfig(), false)
	if !merrors.IsKind(err, merrors.KindMeshQuality) {
		t.Fatalf("want mesh quality error, got %v", err)
	}
}

func TestCheckQualityRejectsVolumeAboveBound(t *testing.T) {
	tm := &mesh.TetMesh{
		Vertices: []r3.Vec{{}, {X: 3}, {Y: 3}, {Z: 3}},
		Tets:     [][4]int{{0, 1, 2, 3}},
	}
	cfg := DefaultQualityConfig()
	cfg.MaxElementVolume = 0.1
	err := CheckQuality(tm, cfg, false)
	if !merrors.IsKind(err, merrors.KindMeshQuality) {
		t.Fatalf("want mesh quality error, got %v", err)
	}
}

func TestCheckQualityRejectsLowDihedralAngle(t *testing.T) {
	// 体積は残るがほぼ平坦なスリバー要素。
	tm := &mesh.TetMesh{
		Vertices: []r3.Vec{{}, {X: 1}, {Y: 1}, {X: 0.3, Y: 0.3, Z: 0.001}},
		Tets:     [][4]int{{0, 1, 2, 3}},
	}
	err := CheckQuality(tm, DefaultQualityConfig(), false)
	if !merrors.IsKind(err, merrors.KindMeshQuality) {
		t.Fatalf("want mesh quality error, got %v", err)
	}
}

func TestCheckQualityRejectsDisconnectedElements(t *testing.T) {
	far := r3.Vec{X: 100, Y: 100, Z: 100}
	tm := &mesh.TetMesh{
		Vertices: []r3.Vec{
			{}, {X: 1}, {Y: 1}, {Z: 1},
			far, r3.Add(far, r3.Vec{X: 1}), r3.Add(far, r3.Vec{Y: 1}), r3.Add(far, r3.Vec{Z: 1}),
		},
		Tets: [][4]int{{0, 1, 2, 3}, {4, 5, 6, 7}},
	}
	if err := CheckQuality(tm, DefaultQualityConfig(), true); !merrors.IsKind(err, merrors.KindMeshQuality) {
		t.Fatalf("want mesh quality error, got %v", err)
	}
	// 入力が閉多様体でない場合は連結性を課さない。
	if err := CheckQuality(tm, DefaultQualityConfig(), false); err != nil {
		t.Fatalf("non-closed input should skip connectivity: %v", err)
	}
}

func TestCheckQualityRejectsEmptyMesh(t *testing.T) {
	if err := CheckQuality(&mesh.TetMesh{}, DefaultQualityConfig(), false); !merrors.IsKind(err, merrors.KindMeshQuality) {
		t.Fatalf("want mesh quality error, got %v", err)
	}
}

func TestCellSizeAutoScalesFromBounds(t *testing.T) {
	cfg := QualityConfig{}
	cell := cfg.cellSize(r3.Vec{}, r3.Vec{X: 20})
	if cell != 1.0 {
		t.Fatalf("auto cell size mismatch: %v", cell)
	}
	cfg.MaxElementVolume = 1.0 / 12.0
	if got := cfg.cellSize(r3.Vec{}, r3.Vec{X: 20}); got != 1.0 {
		t.Fatalf("explicit cell size mismatch: %v", got)
	}
}
