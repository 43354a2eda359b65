// 指示: miu200521358
package minteractor

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_msmfe/pkg/domain/merrors"
)

// Export は追跡結果列を保存する。保存先は完全に成功するか、まったく残らないかのいずれか。
func (uc *TrackUsecase) Export(request ExportRequest) (*ExportResult, error) {
	writer := request.Writer
	if writer == nil {
		writer = uc.sequenceWriter
	}
	if writer == nil {
		return nil, fmt.Errorf("追跡結果保存リポジトリが設定されていません")
	}
	if strings.TrimSpace(request.Destination) == "" {
		return nil, fmt.Errorf("保存先パスが未指定です")
	}
	if request.Sequence == nil {
		return nil, fmt.Errorf("保存対象の追跡結果列が未設定です")
	}
	if !writer.CanSave(request.SaveOptions.Format) {
		return nil, merrors.NewExportError(
			fmt.Sprintf("未対応の出力形式です: %s", request.SaveOptions.Format), nil)
	}
	if err := writer.Save(request.Destination, request.Sequence, request.SaveOptions); err != nil {
		return nil, err
	}
	return &ExportResult{
		Destination: request.Destination,
		FrameCount:  request.Sequence.Len(),
	}, nil
}
