// 指示: miu200521358
package io_mesh

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_msmfe/pkg/domain/merrors"
	"github.com/miu200521358/mu_msmfe/pkg/domain/mesh"
)

// MeshRepository はメッシュ資産ファイルの読み込み契約を表す。
type MeshRepository struct{}

// NewMeshRepository はMeshRepositoryを生成する。
func NewMeshRepository() *MeshRepository {
	return &MeshRepository{}
}

// CanLoad は拡張子に応じて読み込み可否を判定する。
func (r *MeshRepository) CanLoad(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj", ".stl":
		return true
	}
	return false
}

// Load はメッシュ資産を読み込み、基本検証を行う。
func (r *MeshRepository) Load(path string) (*mesh.SurfaceMesh, error) {
	if !r.CanLoad(path) {
		return nil, merrors.NewMeshBindingError(
			fmt.Sprintf("未対応のメッシュ形式です: %s", filepath.Ext(path)), nil).WithPath(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, merrors.NewMeshBindingError("メッシュ資産を開けませんでした", err).WithPath(path)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var m *mesh.SurfaceMesh
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		m, err = ReadObj(f, name)
	case ".stl":
		m, err = ReadStlAscii(f, name)
	}
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}
