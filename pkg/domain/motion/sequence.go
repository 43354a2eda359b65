// 指示: miu200521358
package motion

import (
	"errors"
	"fmt"
	"io"

	"github.com/miu200521358/mu_msmfe/pkg/domain/merrors"
)

// FrameSource は遅延読み出し・再開可能なフレーム供給契約を表す。
// Next は終端で io.EOF を返す。
type FrameSource interface {
	// Columns は座標識別子の列一覧を返す(time 列は含まない)。
	Columns() []string
	// InDegrees は回転座標が度単位で記録されているか返す。
	InDegrees() bool
	// Next は次のフレームを返す。終端では io.EOF を返す。
	Next() (*Frame, error)
	// Reset は読み出し位置を先頭へ戻す。
	Reset() error
	// Close は下層リソースを解放する。
	Close() error
}

// Sequence は実体化済みのモーション系列を表す。
// タイムスタンプは狭義単調増加で、読み込み後は不変として扱う。
type Sequence struct {
	Columns   []string
	InDegrees bool
	Frames    []*Frame
}

// Len はフレーム数を返す。
func (s *Sequence) Len() int {
	return len(s.Frames)
}

// Materialize は FrameSource を末尾まで読み出して Sequence を構築する。
// ランダムアクセスが必要な呼び出し側が明示的に使う。
func Materialize(src FrameSource) (*Sequence, error) {
	if src == nil {
		return nil, merrors.NewMotionFormatError("フレーム供給元が未設定です", nil)
	}
	seq := &Sequence{
		Columns:   append([]string{}, src.Columns()...),
		InDegrees: src.InDegrees(),
	}
	prevTime := 0.0
	for {
		frame, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(seq.Frames) > 0 && frame.Time <= prevTime {
			return nil, merrors.NewMotionFormatError(
				fmt.Sprintf("タイムスタンプが単調増加していません: frame=%d time=%f", frame.Index, frame.Time), nil)
		}
		prevTime = frame.Time
		seq.Frames = append(seq.Frames, frame)
	}
	if len(seq.Frames) == 0 {
		return nil, merrors.NewMotionFormatError("モーション系列にフレームがありません", nil)
	}
	return seq, nil
}
