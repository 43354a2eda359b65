// 指示: miu200521358
package model

const (
	// TrackWarningCoordinateClamped は可動範囲外の座標値をクランプした警告。
	TrackWarningCoordinateClamped = "TrackWarningCoordinateClamped"
	// TrackWarningCoordinateDefaulted は未参照座標へ基準値を適用した警告。
	TrackWarningCoordinateDefaulted = "TrackWarningCoordinateDefaulted"
	// TrackWarningCoordinateFiltered はフィルタ指定により座標を基準値へ固定した警告。
	TrackWarningCoordinateFiltered = "TrackWarningCoordinateFiltered"
	// TrackWarningFrameSolveFailed は厳格モードでフレーム解決を中断した警告。
	TrackWarningFrameSolveFailed = "TrackWarningFrameSolveFailed"
	// TrackWarningMeshQualityRejected は四面体品質検証で要素生成を棄却した警告。
	TrackWarningMeshQualityRejected = "TrackWarningMeshQualityRejected"
)
