// 指示: miu200521358
// Package volumetric は配置済み表面メッシュの四面体分割を提供する。
package volumetric

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// defaultMinDihedralAngleDeg は既定の最小二面角(度)。
	defaultMinDihedralAngleDeg = 10.0
	// autoScaleCellCount は要素サイズ自動決定時に対角線へ並べるセル数。
	autoScaleCellCount = 20.0
	// tetsPerCell はBCC格子で1セルあたりに生成される四面体数。
	tetsPerCell = 12.0
)

// QualityConfig は四面体生成の品質パラメータを表す。
// 同一の入力と同一のパラメータに対して生成結果は決定的。
type QualityConfig struct {
	// MaxElementVolume は要素の最大体積。0 の場合はモデル寸法から自動決定する。
	MaxElementVolume float64 `yaml:"max_element_volume"`
	// MinDihedralAngleDeg は許容する最小二面角(度)。
	MinDihedralAngleDeg float64 `yaml:"min_dihedral_angle_deg"`
	// PreserveSurface は表面近傍の要素を保守的に内側へ限定する。
	PreserveSurface bool `yaml:"preserve_surface"`
	// BoundsBuffer は格子境界箱へ加える余白。0 の場合はセル寸法を使う。
	BoundsBuffer float64 `yaml:"bounds_buffer"`
}

// DefaultQualityConfig は既定の品質パラメータを返す。
func DefaultQualityConfig() QualityConfig {
	return QualityConfig{
		MaxElementVolume:    0,
		MinDihedralAngleDeg: defaultMinDihedralAngleDeg,
		PreserveSurface:     true,
		BoundsBuffer:        0,
	}
}

// cellSize は品質パラメータと境界箱からBCC格子のセル寸法を求める。
func (c QualityConfig) cellSize(min, max r3.Vec) float64 {
	if c.MaxElementVolume > 0 {
		return math.Cbrt(c.MaxElementVolume * tetsPerCell)
	}
	diag := r3.Norm(r3.Sub(max, min))
	if diag <= 0 {
		return 1.0
	}
	return diag / autoScaleCellCount
}
