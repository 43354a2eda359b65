// 指示: miu200521358
// Package minteractor は追跡パイプラインのユースケースを提供する。
package minteractor

import (
	"github.com/miu200521358/mu_msmfe/pkg/usecase/port/moutput"
)

// TrackUsecaseDeps は追跡ユースケースの依存を表す。
type TrackUsecaseDeps struct {
	ModelReader    moutput.IModelReader
	MotionReader   moutput.IMotionReader
	SequenceWriter moutput.ISequenceWriter
}

// TrackUsecase はモデル読み込みから追跡・出力までをまとめたユースケースを表す。
type TrackUsecase struct {
	modelReader    moutput.IModelReader
	motionReader   moutput.IMotionReader
	sequenceWriter moutput.ISequenceWriter
}

// NewTrackUsecase は追跡ユースケースを生成する。
func NewTrackUsecase(deps TrackUsecaseDeps) *TrackUsecase {
	return &TrackUsecase{
		modelReader:    deps.ModelReader,
		motionReader:   deps.MotionReader,
		sequenceWriter: deps.SequenceWriter,
	}
}
