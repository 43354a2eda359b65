// 指示: miu200521358
package mesh

// Snapshot は1フレーム分の配置済みメッシュ集合を表す。
// ボディ識別子から配置済みメッシュへの対応で、計算完了後は不変として扱う。
type Snapshot struct {
	Index    int
	Time     float64
	Surfaces map[string][]*SurfaceMesh
	Volumes  map[string][]*TetMesh
}

// TrackedFrame は1フレームの追跡結果を表す。
// 失敗したフレームも欠落させず、失敗理由を保持したまま整列される。
type TrackedFrame struct {
	Index    int
	Time     float64
	Snapshot *Snapshot
	Warnings []string
	Failure  string
}

// Failed はフレームが失敗扱いか判定する。
func (f *TrackedFrame) Failed() bool {
	return f.Failure != ""
}

// TrackedSequence はモーション系列と1対1に整列した追跡結果列を表す。
type TrackedSequence struct {
	Frames []*TrackedFrame
}

// Len はフレーム数を返す。
func (s *TrackedSequence) Len() int {
	return len(s.Frames)
}

// SucceededCount は成功フレーム数を返す。
func (s *TrackedSequence) SucceededCount() int {
	count := 0
	for _, f := range s.Frames {
		if f != nil && !f.Failed() {
			count++
		}
	}
	return count
}

// FailedIndexes は失敗フレームの番号一覧を返す。
func (s *TrackedSequence) FailedIndexes() []int {
	indexes := []int{}
	for _, f := range s.Frames {
		if f != nil && f.Failed() {
			indexes = append(indexes, f.Index)
		}
	}
	return indexes
}

// Complete は全フレームが揃っているか判定する。
func (s *TrackedSequence) Complete() bool {
	for _, f := range s.Frames {
		if f == nil {
			return false
		}
	}
	return true
}
