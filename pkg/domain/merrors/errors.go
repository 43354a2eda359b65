// 指示: miu200521358
// Package merrors は追跡パイプライン共通のエラー種別を提供する。
package merrors

import (
	"errors"
	"fmt"
)

// ErrorKind はパイプラインエラーの種別を表す。
type ErrorKind string

const (
	// KindModelFormat はモデル記述の構文・階層不正を表す。
	KindModelFormat ErrorKind = "model_format"
	// KindMeshBinding はメッシュ資産の解決・検証失敗を表す。
	KindMeshBinding ErrorKind = "mesh_binding"
	// KindMotionFormat はモーション時系列の形式不正を表す。
	KindMotionFormat ErrorKind = "motion_format"
	// KindSolve は順運動学解決の失敗を表す(フレーム単位で回復可能)。
	KindSolve ErrorKind = "solve"
	// KindTrack は内部不変条件の破れを表す(致命的)。
	KindTrack ErrorKind = "track"
	// KindMeshQuality は四面体メッシュ品質検証の失敗を表す(フレーム単位で回復可能)。
	KindMeshQuality ErrorKind = "mesh_quality"
	// KindExport は出力境界のI/O失敗を表す。
	KindExport ErrorKind = "export"
)

// PipelineError は種別付きのパイプラインエラーを表す。
type PipelineError struct {
	Kind    ErrorKind
	Message string
	Path    string
	Cause   error
}

// Error はエラーメッセージを返す。
func (e *PipelineError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	if e.Path != "" {
		msg += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap は原因エラーを返す。
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// newError は種別付きエラーを生成する。
func newError(kind ErrorKind, message string, cause error) *PipelineError {
	return &PipelineError{Kind: kind, Message: message, Cause: cause}
}

// NewModelFormatError はモデル形式エラーを生成する。
func NewModelFormatError(message string, cause error) *PipelineError {
	return newError(KindModelFormat, message, cause)
}

// NewMeshBindingError はメッシュ束縛エラーを生成する。
func NewMeshBindingError(message string, cause error) *PipelineError {
	return newError(KindMeshBinding, message, cause)
}

// NewMotionFormatError はモーション形式エラーを生成する。
func NewMotionFormatError(message string, cause error) *PipelineError {
	return newError(KindMotionFormat, message, cause)
}

// NewSolveError は順運動学解決エラーを生成する。
func NewSolveError(message string, cause error) *PipelineError {
	return newError(KindSolve, message, cause)
}

// NewTrackError は内部不変条件違反エラーを生成する。
func NewTrackError(message string, cause error) *PipelineError {
	return newError(KindTrack, message, cause)
}

// NewMeshQualityError はメッシュ品質エラーを生成する。
func NewMeshQualityError(message string, cause error) *PipelineError {
	return newError(KindMeshQuality, message, cause)
}

// NewExportError は出力エラーを生成する。
func NewExportError(message string, cause error) *PipelineError {
	return newError(KindExport, message, cause)
}

// WithPath は対象パスを付加した複製を返す。
func (e *PipelineError) WithPath(path string) *PipelineError {
	clone := *e
	clone.Path = path
	return &clone
}

// IsKind はエラー連鎖に指定種別の PipelineError が含まれるか判定する。
func IsKind(err error, kind ErrorKind) bool {
	var pe *PipelineError
	if !errors.As(err, &pe) {
		return false
	}
	return pe.Kind == kind
}

// KindOf はエラー連鎖から種別を取り出す。該当しない場合は空文字列を返す。
func KindOf(err error) ErrorKind {
	var pe *PipelineError
	if !errors.As(err, &pe) {
		return ""
	}
	return pe.Kind
}
