// 指示: miu200521358
package mesh

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

// regularTet は一辺 sqrt(8) の正四面体メッシュを返す。
func regularTet() *TetMesh {
	return &TetMesh{
		Name: "regular",
		Vertices: []r3.Vec{
			{X: 1, Y: 1, Z: 1},
			{X: 1, Y: -1, Z: -1},
			{X: -1, Y: 1, Z: -1},
			{X: -1, Y: -1, Z: 1},
		},
		Tets: [][4]int{{0, 1, 2, 3}},
	}
}

func TestTetVolumeSign(t *testing.T) {
	a := r3.Vec{}
	b := r3.Vec{X: 1}
	c := r3.Vec{Y: 1}
	d := r3.Vec{Z: 1}
	if got := TetVolume(a, b, c, d); math.Abs(got-1.0/6.0) > 1e-15 {
		t.Fatalf("volume mismatch: %v", got)
	}
	// 頂点2つの交換で符号が反転する。
	if got := TetVolume(a, c, b, d); got >= 0 {
		t.Fatalf("swapped tet should have negative volume: %v", got)
	}
}

func TestVolumeOfRegularTet(t *testing.T) {
	m := regularTet()
	// 正四面体 (±1,±1,±1) 偶数パリティ頂点の体積は 8/3。
	if got := m.Volume(0); math.Abs(math.Abs(got)-8.0/3.0) > 1e-12 {
		t.Fatalf("volume mismatch: %v", got)
	}
}

func TestMinDihedralDegOfRegularTet(t *testing.T) {
	m := regularTet()
	// 正四面体の二面角は arccos(1/3) ≈ 70.53°。
	want := 180.0 / math.Pi * math.Acos(1.0/3.0)
	if got := m.MinDihedralDeg(0); math.Abs(got-want) > 1e-9 {
		t.Fatalf("dihedral mismatch: got %v want %v", got, want)
	}
}

func TestComponentCount(t *testing.T) {
	m := regularTet()
	if got := m.ComponentCount(); got != 1 {
		t.Fatalf("single tet should be one component: %d", got)
	}

	// 面を共有しない2要素は2成分になる。
	far := r3.Vec{X: 100, Y: 100, Z: 100}
	m.Vertices = append(m.Vertices,
		far,
		r3.Add(far, r3.Vec{X: 1}),
		r3.Add(far, r3.Vec{Y: 1}),
		r3.Add(far, r3.Vec{Z: 1}),
	)
	m.Tets = append(m.Tets, [4]int{4, 5, 6, 7})
	if got := m.ComponentCount(); got != 2 {
		t.Fatalf("disjoint tets should be two components: %d", got)
	}

	empty := &TetMesh{}
	if got := empty.ComponentCount(); got != 0 {
		t.Fatalf("empty mesh should have zero components: %d", got)
	}
}

func TestTrackedSequenceAccounting(t *testing.T) {
	seq := &TrackedSequence{Frames: []*TrackedFrame{
		{Index: 0},
		{Index: 1, Failure: "solve failed"},
		{Index: 2},
	}}
	if seq.Len() != 3 {
		t.Fatalf("len mismatch: %d", seq.Len())
	}
	if got := seq.SucceededCount(); got != 2 {
		t.Fatalf("succeeded mismatch: %d", got)
	}
	failed := seq.FailedIndexes()
	if len(failed) != 1 || failed[0] != 1 {
		t.Fatalf("failed indexes mismatch: %v", failed)
	}
	if !seq.Complete() {
		t.Fatalf("sequence should be complete")
	}
	seq.Frames[2] = nil
	if seq.Complete() {
		t.Fatalf("sequence with hole should not be complete")
	}
}
