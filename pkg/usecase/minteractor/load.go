// 指示: miu200521358
package minteractor

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_msmfe/pkg/domain/merrors"
	"github.com/miu200521358/mu_msmfe/pkg/domain/model"
	"github.com/miu200521358/mu_msmfe/pkg/domain/motion"
	"github.com/miu200521358/mu_msmfe/pkg/usecase/port/moutput"
)

// LoadModel は運動学モデルを読み込む。
func (uc *TrackUsecase) LoadModel(rep moutput.IModelReader, path string) (*model.KinematicModel, error) {
	repo := rep
	if repo == nil {
		repo = uc.modelReader
	}
	if repo == nil {
		return nil, fmt.Errorf("モデル読み込みリポジトリが設定されていません")
	}
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("モデルパスが未指定です")
	}
	if !repo.CanLoad(path) {
		return nil, merrors.NewModelFormatError(
			fmt.Sprintf("未対応のモデル形式です: %s", path), nil)
	}
	return repo.Load(path)
}

// LoadMotion はモーション系列を読み込む。
func (uc *TrackUsecase) LoadMotion(rep moutput.IMotionReader, path string) (*motion.Sequence, error) {
	repo := rep
	if repo == nil {
		repo = uc.motionReader
	}
	if repo == nil {
		return nil, fmt.Errorf("モーション読み込みリポジトリが設定されていません")
	}
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("モーションパスが未指定です")
	}
	if !repo.CanLoad(path) {
		return nil, merrors.NewMotionFormatError(
			fmt.Sprintf("未対応のモーション形式です: %s", path), nil)
	}
	return repo.Load(path)
}
