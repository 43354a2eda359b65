// 指示: miu200521358
// Package messages はCLI表示に使うメッセージキーを提供する。
package messages

// メッセージキー一覧。
const (
	LabelModelPath  = "入力モデルファイルパス(.osim)"
	LabelMotionPath = "入力モーションファイルパス(.sto/.mot)"
	LabelOutputPath = "出力先ディレクトリ"
	LabelFormat     = "出力形式(obj/medit)"

	MessageTrackFailed    = "追跡に失敗しました"
	MessageExportFailed   = "保存に失敗しました"
	MessageInspectFailed  = "モデル読み込みに失敗しました"
	MessageModelRequired  = "入力モデルファイルを指定してください (--model)"
	MessageMotionRequired = "入力モーションファイルを指定してください (--motion)"
	MessageOutputRequired = "出力先ディレクトリを指定してください (--out)"

	LogTrackSuccess  = "追跡完了: %s"
	LogExportSuccess = "保存完了: %d フレーム -> %s"
)
