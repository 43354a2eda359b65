// 指示: miu200521358
package model

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// PathPoint は筋の経路点を表す。位置は所属ボディのローカル座標。
type PathPoint struct {
	Name     string
	BodyName string
	Location mgl64.Vec3
}

// Muscle は筋とその経路点列を表す。
// 筋力推定は扱わず、ボディとの対応関係のみ保持する。
type Muscle struct {
	Name       string
	PathPoints []*PathPoint
}

// BodyMuscleMap はボディ名から、経路点がそのボディ上を通る筋名一覧への対応を返す。
// 一覧は名前順で重複なし。
func (m *KinematicModel) BodyMuscleMap() map[string][]string {
	seen := map[string]map[string]struct{}{}
	for _, body := range m.Bodies.Bodies() {
		seen[body.Name] = map[string]struct{}{}
	}
	for _, muscle := range m.Muscles {
		for _, point := range muscle.PathPoints {
			if bucket, ok := seen[point.BodyName]; ok {
				bucket[muscle.Name] = struct{}{}
			}
		}
	}
	result := make(map[string][]string, len(seen))
	for bodyName, bucket := range seen {
		names := make([]string, 0, len(bucket))
		for name := range bucket {
			names = append(names, name)
		}
		sort.Strings(names)
		result[bodyName] = names
	}
	return result
}
