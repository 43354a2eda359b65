// 指示: miu200521358
// Package tracking は解決済み姿勢によるメッシュ配置を提供する。
package tracking

import (
	"fmt"

	"github.com/miu200521358/mu_msmfe/pkg/domain/merrors"
	"github.com/miu200521358/mu_msmfe/pkg/domain/mesh"
	"github.com/miu200521358/mu_msmfe/pkg/domain/model"
)

// PlaceFrame は1フレーム分の姿勢集合を束縛メッシュへ適用し、スナップショットを生成する。
// 剛体変換のみ適用し、位相は基準メッシュから変更しない。フレーム間の状態は持たない。
func PlaceFrame(m *model.KinematicModel, poses *model.PoseSet) (*mesh.Snapshot, error) {
	if m == nil || poses == nil {
		return nil, merrors.NewTrackError("モデルまたは姿勢集合が未設定です", nil)
	}

	snapshot := &mesh.Snapshot{
		Index:    poses.Index,
		Time:     poses.Time,
		Surfaces: map[string][]*mesh.SurfaceMesh{},
		Volumes:  map[string][]*mesh.TetMesh{},
	}
	for _, body := range m.TopologicalBodies() {
		if len(body.Bindings) == 0 {
			continue
		}
		pose, ok := poses.Get(body.Name)
		if !ok {
			// 束縛があるのに姿勢が無いのはローダ不変条件の破れであり、致命的扱い。
			return nil, merrors.NewTrackError(
				fmt.Sprintf("ボディ %s の姿勢が姿勢集合にありません", body.Name), nil)
		}
		placed := make([]*mesh.SurfaceMesh, 0, len(body.Bindings))
		for _, binding := range body.Bindings {
			transformed, err := binding.Mesh.Transformed(pose.Mul(binding.Offset))
			if err != nil {
				return nil, merrors.NewTrackError(
					fmt.Sprintf("ボディ %s のメッシュ配置に失敗しました", body.Name), err)
			}
			placed = append(placed, transformed)
		}
		snapshot.Surfaces[body.Name] = placed
	}
	return snapshot, nil
}
