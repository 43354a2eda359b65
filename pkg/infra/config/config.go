// 指示: miu200521358
// Package config は追跡実行設定のYAML読み込みを提供する。
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/miu200521358/mu_msmfe/pkg/usecase/volumetric"
	"gopkg.in/yaml.v3"
)

// TrackConfig は追跡実行の設定ファイル内容を表す。
type TrackConfig struct {
	ModelPath  string `yaml:"model_path"`
	MotionPath string `yaml:"motion_path"`
	OutputPath string `yaml:"output_path"`
	// Format は出力形式("obj" または "medit")。
	Format string `yaml:"format"`
	// GenerateVolumetric は四面体メッシュも生成する。
	GenerateVolumetric bool `yaml:"generate_volumetric"`
	// StrictJointLimits は可動範囲外の座標値でフレームを失敗扱いにする。
	StrictJointLimits bool `yaml:"strict_joint_limits"`
	// FailFast は最初のフレーム失敗で全体を中断する。
	FailFast bool `yaml:"fail_fast"`
	// Workers はフレーム並列数。0なら論理CPU数。
	Workers int `yaml:"workers"`
	// Filters は追跡対象とする座標名の部分一致フィルタ。
	Filters []string `yaml:"filters"`
	// InvertFilter はフィルタの意味を反転する。
	InvertFilter bool `yaml:"invert_filter"`
	// Quality は四面体生成の品質パラメータ。
	Quality volumetric.QualityConfig `yaml:"quality"`
}

// DefaultTrackConfig は既定の追跡設定を返す。
func DefaultTrackConfig() *TrackConfig {
	return &TrackConfig{
		Format:  "obj",
		Quality: volumetric.DefaultQualityConfig(),
	}
}

// LoadTrackConfig はYAML設定ファイルを読み込み、検証して返す。
// ファイル内で省略された項目には既定値が入る。
func LoadTrackConfig(path string) (*TrackConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("設定ファイルを読み込めません: %w", err)
	}

	cfg := DefaultTrackConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("設定ファイルを解釈できません: %w", err)
	}
	if err := validateTrackConfig(cfg); err != nil {
		return nil, fmt.Errorf("設定ファイルが不正です: %w", err)
	}
	return cfg, nil
}

// validateTrackConfig は設定値の整合性を検証する。
func validateTrackConfig(cfg *TrackConfig) error {
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "obj", "medit":
	default:
		return fmt.Errorf("未対応の出力形式です: %s", cfg.Format)
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("並列数が負数です: %d", cfg.Workers)
	}
	if cfg.Quality.MaxElementVolume < 0 {
		return fmt.Errorf("最大要素体積が負数です: %g", cfg.Quality.MaxElementVolume)
	}
	if cfg.Quality.MinDihedralAngleDeg < 0 || cfg.Quality.MinDihedralAngleDeg >= 90 {
		return fmt.Errorf("最小二面角が範囲外です: %g", cfg.Quality.MinDihedralAngleDeg)
	}
	if cfg.Quality.BoundsBuffer < 0 {
		return fmt.Errorf("境界余白が負数です: %g", cfg.Quality.BoundsBuffer)
	}
	return nil
}
