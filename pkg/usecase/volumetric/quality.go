// 指示: miu200521358
package volumetric

import (
	"fmt"

	"github.com/miu200521358/mu_msmfe/pkg/domain/merrors"
	"github.com/miu200521358/mu_msmfe/pkg/domain/mesh"
)

const zeroVolumeEpsilon = 1e-12

// CheckQuality は四面体メッシュの品質を検証する。
// 体積ゼロ・反転(負ヤコビアン)要素、二面角下限違反、
// および入力が単一閉多様体だった場合の非連結を棄却する。
func CheckQuality(tm *mesh.TetMesh, cfg QualityConfig, inputClosed bool) error {
	if tm == nil || len(tm.Tets) == 0 {
		return merrors.NewMeshQualityError("四面体メッシュに要素がありません", nil)
	}

	minDihedral := cfg.MinDihedralAngleDeg
	if minDihedral <= 0 {
		minDihedral = defaultMinDihedralAngleDeg
	}

	for i := range tm.Tets {
		volume := tm.Volume(i)
		if volume <= zeroVolumeEpsilon {
			if volume < 0 {
				return merrors.NewMeshQualityError(
					fmt.Sprintf("要素 %d が反転しています(負ヤコビアン): volume=%g", i, volume), nil)
			}
			return merrors.NewMeshQualityError(
				fmt.Sprintf("要素 %d の体積がゼロです", i), nil)
		}
		// セル寸法はちょうど上限体積から逆算されるため、丸め分の許容を持たせる。
		if cfg.MaxElementVolume > 0 && volume > cfg.MaxElementVolume*(1.0+1e-9) {
			return merrors.NewMeshQualityError(
				fmt.Sprintf("要素 %d の体積 %g が上限 %g を超えています", i, volume, cfg.MaxElementVolume), nil)
		}
		if angle := tm.MinDihedralDeg(i); angle < minDihedral {
			return merrors.NewMeshQualityError(
				fmt.Sprintf("要素 %d の最小二面角 %.2f° が下限 %.2f° を下回っています", i, angle, minDihedral), nil)
		}
	}

	if inputClosed {
		if components := tm.ComponentCount(); components != 1 {
			return merrors.NewMeshQualityError(
				fmt.Sprintf("要素集合が %d 個の連結成分に分かれています", components), nil)
		}
	}
	return nil
}
