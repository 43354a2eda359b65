// 指示: miu200521358
// Package io_mesh はメッシュ資産の読み書きアダプタを提供する。
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

// ReadObj はWavefront OBJ形式の表面メッシュを読み込む。
// v/f 行のみ解釈し、多角形は扇状に三角形分割する。
func ReadObj(r io.Reader, name string) (*mesh.SurfaceMesh, error) {
	m := &mesh.SurfaceMesh{Name: name}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, merrors.NewMeshBindingError(
					fmt.Sprintf("OBJ %s の %d 行目: 頂点成分が不足しています", name, lineNo), nil)
			}
			v := r3.Vec{}
			for i, target := range []*float64{&v.X, &v.Y, &v.Z} {
				value, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, merrors.NewMeshBindingError(
						fmt.Sprintf("OBJ %s の %d 行目: 頂点座標を解釈できません", name, lineNo), err)
				}
				*target = value
			}
			m.Vertices = append(m.Vertices, v)
		case "f":
			if len(fields) < 4 {
				return nil, merrors.NewMeshBindingError(
					fmt.Sprintf("OBJ %s の %d 行目: 面の頂点数が3未満です", name, lineNo), nil)
			}
			indexes := make([]int, 0, len(fields)-1)
			for _, field := range fields[1:] {
				// "v/vt/vn" 形式の先頭要素のみ使う。
				head := strings.SplitN(field, "/", 2)[0]
				idx, err := strconv.Atoi(head)
				if err != nil {
					return nil, merrors.NewMeshBindingError(
						fmt.Sprintf("OBJ %s の %d 行目: 頂点番号を解釈できません", name, lineNo), err)
				}
				if idx < 0 {
					idx = len(m.Vertices) + idx + 1
				}
				if idx < 1 || idx > len(m.Vertices) {
					return nil, merrors.NewMeshBindingError(
						fmt.Sprintf("OBJ %s の %d 行目: 頂点番号 %d が範囲外です", name, lineNo, idx), nil)
				}
				indexes = append(indexes, idx-1)
			}
			for i := 1; i+1 < len(indexes); i++ {
				m.Triangles = append(m.Triangles, [3]int{indexes[0], indexes[i], indexes[i+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, merrors.NewMeshBindingError(
			fmt.Sprintf("OBJ %s の読み取りに失敗しました", name), err)
	}
	if len(m.Vertices) == 0 || len(m.Triangles) == 0 {
		return nil, merrors.NewMeshBindingError(
			fmt.Sprintf("OBJ %s に頂点または面がありません", name), nil)
	}
	return m, nil
}

// WriteObj は表面メッシュをWavefront OBJ形式で書き出す。
func WriteObj(w io.Writer, m *mesh.SurfaceMesh) error {
	bw := bufio.NewWriter(w)
	if m.Name != "" {
		if _, err := fmt.Fprintf(bw, "o %s\n", m.Name); err != nil {
			return err
		}
	}
	for _, v := range m.Vertices {
		if _, err := fmt.Fprintf(bw, "v %.9g %.9g %.9g\n", v.X, v.Y, v.Z); err != nil {
			return err
		}
	}
	for _, tri := range m.Triangles {
		if _, err := fmt.Fprintf(bw, "f %d %d %d\n", tri[0]+1, tri[1]+1, tri[2]+1); err != nil {
			return err
		}
	}
	return bw.Flush()
}
