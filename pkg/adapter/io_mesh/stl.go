// 指示: miu200521358
package io_mesh

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/miu200521358/mu_msmfe/pkg/domain/merrors"
	"github.com/miu200521358/mu_msmfe/pkg/domain/mesh"
)

// ReadStlAscii はASCII STL形式の表面メッシュを読み込む。
// STLは頂点を共有しないため、同一座標の頂点を溶接して多様体検査を可能にする。
func ReadStlAscii(r io.Reader, name string) (*mesh.SurfaceMesh, error) {
	m := &mesh.SurfaceMesh{Name: name}
	vertexIDs := map[[3]float64]int{}
	triangle := []int{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	lineNo := 0
	sawSolid := false
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "solid":
			sawSolid = true
		case "vertex":
			if len(fields) < 4 {
				return nil, merrors.NewMeshBindingError(
					fmt.Sprintf("STL %s の %d 行目: 頂点成分が不足しています", name, lineNo), nil)
			}
			key := [3]float64{}
			for i := 0; i < 3; i++ {
				value, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, merrors.NewMeshBindingError(
						fmt.Sprintf("STL %s の %d 行目: 頂点座標を解釈できません", name, lineNo), err)
				}
				key[i] = value
			}
			id, ok := vertexIDs[key]
			if !ok {
				id = len(m.Vertices)
				vertexIDs[key] = id
				m.Vertices = append(m.Vertices, r3.Vec{X: key[0], Y: key[1], Z: key[2]})
			}
			triangle = append(triangle, id)
		case "endfacet":
			if len(triangle) != 3 {
				return nil, merrors.NewMeshBindingError(
					fmt.Sprintf("STL %s の %d 行目: facet の頂点数が3ではありません: %d", name, lineNo, len(triangle)), nil)
			}
			m.Triangles = append(m.Triangles, [3]int{triangle[0], triangle[1], triangle[2]})
			triangle = triangle[:0]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, merrors.NewMeshBindingError(
			fmt.Sprintf("STL %s の読み取りに失敗しました", name), err)
	}
	if !sawSolid || len(m.Triangles) == 0 {
		return nil, merrors.NewMeshBindingError(
			fmt.Sprintf("STL %s をASCII STLとして解釈できませんでした", name), nil)
	}
	return m, nil
}
