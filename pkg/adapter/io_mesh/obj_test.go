// 指示: miu200521358
package io_mesh

import (
	"bytes"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/miu200521358/mu_msmfe/pkg/domain/merrors"
	"github.com/miu200521358/mu_msmfe/pkg/domain/mesh"
)

func TestReadObjParsesVerticesAndFaces(t *testing.T) {
	src := `# comment
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1/1/1 2/2/2 3/3/3 4/4/4
`
	m, err := ReadObj(strings.NewReader(src), "quad")
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(m.Vertices) != 4 {
		t.Fatalf("vertex count mismatch: %d", len(m.Vertices))
	}
	// 四角形は扇状に三角形へ分割される。
	if len(m.Triangles) != 2 {
		t.Fatalf("triangle count mismatch: %d", len(m.Triangles))
	}
	if m.Triangles[0] != [3]int{0, 1, 2} || m.Triangles[1] != [3]int{0, 2, 3} {
		t.Fatalf("fan triangulation mismatch: %v", m.Triangles)
	}
}

func TestReadObjNegativeIndexes(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3 -2 -1\n"
	m, err := ReadObj(strings.NewReader(src), "tri")
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if m.Triangles[0] != [3]int{0, 1, 2} {
		t.Fatalf("negative index resolution mismatch: %v", m.Triangles[0])
	}
}

func TestReadObjRejectsBrokenInput(t *testing.T) {
	cases := map[string]string{
		"missing component":  "v 0 0\n",
		"bad float":          "v a b c\n",
		"out of range index": "v 0 0 0\nf 1 2 3\n",
		"empty mesh":         "# nothing\n",
	}
	for name, src := range cases {
		if _, err := ReadObj(strings.NewReader(src), name); !merrors.IsKind(err, merrors.KindMeshBinding) {
			t.Fatalf("%s: want mesh binding error, got %v", name, err)
		}
	}
}

func TestWriteObjRoundTrip(t *testing.T) {
	original := &mesh.SurfaceMesh{
		Name: "tri",
		Vertices: []r3.Vec{
			{X: 0.5, Y: -1.25, Z: 2},
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
		},
		Triangles: [][3]int{{0, 1, 2}},
	}
	var buf bytes.Buffer
	if err := WriteObj(&buf, original); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	got, err := ReadObj(&buf, "tri")
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if len(got.Vertices) != 3 || got.Vertices[0] != original.Vertices[0] {
		t.Fatalf("vertices not preserved: %v", got.Vertices)
	}
	if len(got.Triangles) != 1 || got.Triangles[0] != original.Triangles[0] {
		t.Fatalf("triangles not preserved: %v", got.Triangles)
	}
}
