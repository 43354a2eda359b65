// 指示: miu200521358
package minteractor

import (
	"time"

	"github.com/miu200521358/mu_msmfe/pkg/domain/mesh"
	"github.com/miu200521358/mu_msmfe/pkg/domain/model"
	"github.com/miu200521358/mu_msmfe/pkg/domain/motion"
	"github.com/miu200521358/mu_msmfe/pkg/usecase/port/moutput"
	"github.com/miu200521358/mu_msmfe/pkg/usecase/volumetric"
)

// SaveOptions は保存時オプションを表す。
type SaveOptions = moutput.SaveOptions

// TrackProgressEventType は追跡処理の進捗イベント種別を表す。
type TrackProgressEventType string

const (
	// TrackProgressEventTypeModelLoaded はモデル読み込み完了イベントを表す。
	TrackProgressEventTypeModelLoaded TrackProgressEventType = "model_loaded"
	// TrackProgressEventTypeMotionLoaded はモーション読み込み完了イベントを表す。
	TrackProgressEventTypeMotionLoaded TrackProgressEventType = "motion_loaded"
	// TrackProgressEventTypeFrameTracked はフレーム追跡完了イベントを表す。
	TrackProgressEventTypeFrameTracked TrackProgressEventType = "frame_tracked"
	// TrackProgressEventTypeCompleted は追跡完了イベントを表す。
	TrackProgressEventTypeCompleted TrackProgressEventType = "completed"
)

// TrackProgressEvent は追跡処理の進捗イベントを表す。
type TrackProgressEvent struct {
	Type       TrackProgressEventType
	FrameIndex int
	FrameCount int
	// Frame はフレーム追跡完了イベントで解決済みフレームを運ぶ。逐次再生用。
	Frame *mesh.TrackedFrame
}

// ITrackProgressReporter は追跡処理の進捗通知契約を表す。
type ITrackProgressReporter interface {
	// ReportTrackProgress は追跡処理進捗を通知する。
	ReportTrackProgress(event TrackProgressEvent)
}

// TrackOptions は追跡実行時のオプションを表す。
type TrackOptions struct {
	// GenerateVolumetric は配置済み表面から四面体メッシュも生成する。
	GenerateVolumetric bool
	// Quality は四面体生成の品質パラメータ。
	Quality volumetric.QualityConfig
	// StrictJointLimits は可動範囲外の座標値でフレームを失敗扱いにする。
	StrictJointLimits bool
	// FailFast は最初のフレーム失敗で全体を中断する。
	FailFast bool
	// Workers はフレーム並列数。0以下なら論理CPU数。
	Workers int
	// Filters は追跡対象とする座標名の部分一致フィルタ。
	Filters []string
	// InvertFilter はフィルタの意味を反転する。
	InvertFilter bool
}

// TrackRequest は追跡要求を表す。
type TrackRequest struct {
	ModelPath        string
	Model            *model.KinematicModel
	MotionPath       string
	Motion           *motion.Sequence
	Options          TrackOptions
	ModelReader      moutput.IModelReader
	MotionReader     moutput.IMotionReader
	ProgressReporter ITrackProgressReporter
}

// TrackReport は追跡実行の集計を表す。
type TrackReport struct {
	FrameCount     int
	SucceededCount int
	FailedIndexes  []int
	WarningCount   int
	Elapsed        time.Duration
}

// TrackResult は追跡結果を表す。
type TrackResult struct {
	RunID    string
	Model    *model.KinematicModel
	Sequence *mesh.TrackedSequence
	Report   TrackReport
}

// ExportRequest は追跡結果の保存要求を表す。
type ExportRequest struct {
	Destination string
	Sequence    *mesh.TrackedSequence
	Writer      moutput.ISequenceWriter
	SaveOptions SaveOptions
}

// ExportResult は保存結果を表す。
type ExportResult struct {
	Destination string
	FrameCount  int
}

// reportTrackProgress は報告先が設定されている場合のみ進捗を通知する。
func reportTrackProgress(reporter ITrackProgressReporter, event TrackProgressEvent) {
	if reporter == nil {
		return
	}
	reporter.ReportTrackProgress(event)
}
