// 指示: miu200521358
// Package moutput は入出力境界のポート契約を提供する。
package moutput

import (
	"github.com/miu200521358/mu_msmfe/pkg/domain/mesh"
	"github.com/miu200521358/mu_msmfe/pkg/domain/model"
	"github.com/miu200521358/mu_msmfe/pkg/domain/motion"
)

// IModelReader はモデル記述の読み込み契約を表す。
type IModelReader interface {
	// CanLoad はパスの形式へ対応しているか判定する。
	CanLoad(path string) bool
	// Load はモデル記述を読み込み、運動学ツリーを構築する。
	Load(path string) (*model.KinematicModel, error)
}

// IMotionReader はモーション時系列の読み込み契約を表す。
type IMotionReader interface {
	// CanLoad はパスの形式へ対応しているか判定する。
	CanLoad(path string) bool
	// Open は遅延読み出しのフレーム供給元を開く。
	Open(path string) (motion.FrameSource, error)
	// Load は系列全体を実体化して読み込む。
	Load(path string) (*motion.Sequence, error)
}

// SaveOptions は追跡結果保存時のオプションを表す。
type SaveOptions struct {
	// Format は出力形式("obj" または "medit")。
	Format string
	// IncludeVolumes は四面体メッシュも出力対象へ含める。
	IncludeVolumes bool
}

// ISequenceWriter は追跡結果列の書き込み契約を表す。
type ISequenceWriter interface {
	// CanSave は出力形式へ対応しているか判定する。
	CanSave(format string) bool
	// Save は追跡結果列を順序を保って保存する。失敗時は部分出力を残さない。
	Save(destination string, sequence *mesh.TrackedSequence, opts SaveOptions) error
}
