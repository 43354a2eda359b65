// 指示: miu200521358
package io_mesh

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/miu200521358/mu_msmfe/pkg/domain/merrors"
	"github.com/miu200521358/mu_msmfe/pkg/domain/mesh"
	"github.com/miu200521358/mu_msmfe/pkg/usecase/port/moutput"
)

const (
	// FormatObj はフレームごとのWavefront OBJ出力を表す。
	FormatObj = "obj"
	// FormatMedit はフレームごとのMEDIT(.mesh)出力を表す。
	FormatMedit = "medit"

	exportDirMode = 0o755
)

// SequenceWriter は追跡結果列のファイル出力アダプタを表す。
// 一時ディレクトリへ全フレームを書き出し、検証後にリネームで確定する。
type SequenceWriter struct{}

// NewSequenceWriter はSequenceWriterを生成する。
func NewSequenceWriter() *SequenceWriter {
	return &SequenceWriter{}
}

// CanSave は出力形式へ対応しているか判定する。
func (w *SequenceWriter) CanSave(format string) bool {
	switch strings.ToLower(format) {
	case FormatObj, FormatMedit:
		return true
	}
	return false
}

// Save は追跡結果列をフレーム順・ボディ別に保存する。
// 完全で順序整合の取れた列のみ確定し、失敗時は部分出力を残さない。
func (w *SequenceWriter) Save(destination string, sequence *mesh.TrackedSequence, opts moutput.SaveOptions) error {
	format := strings.ToLower(opts.Format)
	if !w.CanSave(format) {
		return merrors.NewExportError(
			fmt.Sprintf("未対応の出力形式です: %s", opts.Format), nil)
	}
	if sequence == nil || sequence.Len() == 0 {
		return merrors.NewExportError("追跡結果列が空です", nil)
	}
	if !sequence.Complete() {
		return merrors.NewExportError("追跡結果列に欠落フレームがあります", nil)
	}
	for i, frame := range sequence.Frames {
		if frame.Index != i {
			return merrors.NewExportError(
				fmt.Sprintf("フレーム順序が崩れています: slot=%d index=%d", i, frame.Index), nil)
		}
	}

	parent := filepath.Dir(destination)
	if err := os.MkdirAll(parent, exportDirMode); err != nil {
		return merrors.NewExportError("出力先ディレクトリの作成に失敗しました", err).WithPath(parent)
	}
	staging := filepath.Join(parent, fmt.Sprintf(".%s.tmp-%s", filepath.Base(destination), uuid.NewString()))
	if err := os.MkdirAll(staging, exportDirMode); err != nil {
		return merrors.NewExportError("一時出力ディレクトリの作成に失敗しました", err).WithPath(staging)
	}
	defer os.RemoveAll(staging)

	for _, frame := range sequence.Frames {
		if err := w.writeFrame(staging, frame, format, opts.IncludeVolumes); err != nil {
			return err
		}
	}

	if err := os.RemoveAll(destination); err != nil {
		return merrors.NewExportError("既存出力の置き換えに失敗しました", err).WithPath(destination)
	}
	if err := os.Rename(staging, destination); err != nil {
		return merrors.NewExportError("出力の確定に失敗しました", err).WithPath(destination)
	}
	return nil
}

// writeFrame は1フレーム分の配置済みメッシュ群を書き出す。
func (w *SequenceWriter) writeFrame(staging string, frame *mesh.TrackedFrame, format string, includeVolumes bool) error {
	frameDir := filepath.Join(staging, fmt.Sprintf("frame_%04d", frame.Index))
	if err := os.MkdirAll(frameDir, exportDirMode); err != nil {
		return merrors.NewExportError("フレームディレクトリの作成に失敗しました", err).WithPath(frameDir)
	}
	if frame.Failed() {
		// 失敗フレームは黙って欠落させず、理由ファイルとして残す。
		path := filepath.Join(frameDir, "failed.txt")
		if err := os.WriteFile(path, []byte(frame.Failure+"\n"), 0o644); err != nil {
			return merrors.NewExportError("失敗フレーム記録の書き込みに失敗しました", err).WithPath(path)
		}
		return nil
	}

	for _, bodyName := range sortedKeys(frame.Snapshot.Surfaces) {
		for i, surface := range frame.Snapshot.Surfaces[bodyName] {
			path := filepath.Join(frameDir, fmt.Sprintf("%s_%02d.obj", bodyName, i))
			if err := AtomicWriteFile(path, func(out io.Writer) error {
				return WriteObj(out, surface)
			}); err != nil {
				return merrors.NewExportError("表面メッシュの書き込みに失敗しました", err).WithPath(path)
			}
		}
	}
	if format == FormatMedit || includeVolumes {
		for _, bodyName := range sortedKeys(frame.Snapshot.Volumes) {
			for i, volume := range frame.Snapshot.Volumes[bodyName] {
				path := filepath.Join(frameDir, fmt.Sprintf("%s_%02d.mesh", bodyName, i))
				if err := AtomicWriteFile(path, func(out io.Writer) error {
					return WriteMedit(out, volume)
				}); err != nil {
					return merrors.NewExportError("四面体メッシュの書き込みに失敗しました", err).WithPath(path)
				}
			}
		}
	}
	return nil
}

// sortedKeys はマップのキーを昇順で返す。出力順を決定的にする。
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
