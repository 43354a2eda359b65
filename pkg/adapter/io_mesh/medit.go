// 指示: miu200521358
package io_mesh

import (
	"bufio"
	"fmt"
	"io"

	"github.com/miu200521358/mu_msmfe/pkg/domain/mesh"
)

// WriteMedit は四面体メッシュをMEDIT(.mesh)形式で書き出す。
// 頂点・四面体とも参照番号は1始まり。
func WriteMedit(w io.Writer, tm *mesh.TetMesh) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "MeshVersionFormatted 2\nDimension 3\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(bw, "Vertices\n%d\n", len(tm.Vertices)); err != nil {
		return err
	}
	for _, v := range tm.Vertices {
		if _, err := fmt.Fprintf(bw, "%.9g %.9g %.9g 1\n", v.X, v.Y, v.Z); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(bw, "\nTetrahedra\n%d\n", len(tm.Tets)); err != nil {
		return err
	}
	for _, t := range tm.Tets {
		if _, err := fmt.Fprintf(bw, "%d %d %d %d 1\n", t[0]+1, t[1]+1, t[2]+1, t[3]+1); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(bw, "\nEnd\n"); err != nil {
		return err
	}
	return bw.Flush()
}
