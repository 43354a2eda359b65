// 指示: miu200521358
package model

import (
	"github.com/miu200521358/mu_msmfe/pkg/domain/mmath"
)

// PoseSet は1フレーム分の順運動学解を表す。
// 全ボディがちょうど1エントリ持ち、計算完了後は不変として扱う。
type PoseSet struct {
	Index int
	Time  float64
	poses map[string]mmath.RigidTransform
}

// NewPoseSet は指定容量の空の姿勢集合を生成する。
func NewPoseSet(index int, time float64, capacity int) *PoseSet {
	return &PoseSet{
		Index: index,
		Time:  time,
		poses: make(map[string]mmath.RigidTransform, capacity),
	}
}

// Set はボディの世界座標系姿勢を登録する。
func (p *PoseSet) Set(bodyName string, transform mmath.RigidTransform) {
	p.poses[bodyName] = transform
}

// Get はボディの世界座標系姿勢を取得する。
func (p *PoseSet) Get(bodyName string) (mmath.RigidTransform, bool) {
	t, ok := p.poses[bodyName]
	return t, ok
}

// Len は登録済みボディ数を返す。
func (p *PoseSet) Len() int {
	return len(p.poses)
}
