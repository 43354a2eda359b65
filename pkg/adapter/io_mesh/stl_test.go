// 指示: miu200521358
package io_mesh

import (
	"strings"
	"testing"

	"github.com/miu200521358/mu_msmfe/pkg/domain/merrors"
)

const asciiStlTwoFacets = `solid pair
facet normal 0 0 1
  outer loop
    vertex 0 0 0
    vertex 1 0 0
    vertex 0 1 0
  endloop
endfacet
facet normal 0 0 1
  outer loop
    vertex 1 0 0
    vertex 1 1 0
    vertex 0 1 0
  endloop
endfacet
endsolid pair
`

func TestReadStlAsciiWeldsSharedVertices(t *testing.T) {
	m, err := ReadStlAscii(strings.NewReader(asciiStlTwoFacets), "pair")
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	// 2面6頂点のうち、共有する2頂点が溶接されて4頂点になる。
	if len(m.Vertices) != 4 {
		t.Fatalf("welded vertex count mismatch: %d", len(m.Vertices))
	}
	if len(m.Triangles) != 2 {
		t.Fatalf("triangle count mismatch: %d", len(m.Triangles))
	}
	shared := map[int]int{}
	for _, tri := range m.Triangles {
		for _, idx := range tri {
			shared[idx]++
		}
	}
	twice := 0
	for _, count := range shared {
		if count == 2 {
			twice++
		}
	}
	if twice != 2 {
		t.Fatalf("shared vertex count mismatch: %d", twice)
	}
}

func TestReadStlAsciiRejectsBrokenInput(t *testing.T) {
	cases := map[string]string{
		"no solid keyword": "facet normal 0 0 1\nendfacet\n",
		"bad coordinate":   "solid x\nfacet\nvertex a b c\nendfacet\nendsolid x\n",
		"short facet":      "solid x\nfacet\nvertex 0 0 0\nvertex 1 0 0\nendfacet\nendsolid x\n",
		"empty solid":      "solid x\nendsolid x\n",
	}
	for name, src := range cases {
		if _, err := ReadStlAscii(strings.NewReader(src), name); !merrors.IsKind(err, merrors.KindMeshBinding) {
			t.Fatalf("%s: want mesh binding error, got %v", name, err)
		}
	}
}
