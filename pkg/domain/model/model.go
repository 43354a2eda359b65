// 指示: miu200521358
package model

import (
	"fmt"

	"github.com/miu200521358/mu_msmfe/pkg/domain/merrors"
	"github.com/miu200521358/mu_msmfe/pkg/domain/mmath"
)

// KinematicModel は筋骨格モデルの運動学ツリー全体を表す。
// 読み込み後は不変として扱い、フレーム並列の参照は同期なしで安全。
type KinematicModel struct {
	Name string
	Path string
	// WorldAnchor はルートボディの世界座標系姿勢(既定は恒等)。
	WorldAnchor mmath.RigidTransform
	Bodies      *BodyCollection
	Muscles     []*Muscle

	coordinates map[string]*Coordinate
	topological []*Body
}

// NewKinematicModel は空のモデルを生成する。
func NewKinematicModel(name string) *KinematicModel {
	return &KinematicModel{
		Name:        name,
		WorldAnchor: mmath.IdentityTransform(),
		Bodies:      NewBodyCollection(),
		coordinates: map[string]*Coordinate{},
	}
}

// Coordinate は宣言済み座標を名前で取得する。
func (m *KinematicModel) Coordinate(name string) (*Coordinate, bool) {
	c, ok := m.coordinates[name]
	return c, ok
}

// CoordinateSchema は宣言済み座標の集合を返す。
func (m *KinematicModel) CoordinateSchema() map[string]*Coordinate {
	return m.coordinates
}

// DefaultCoordinateValues は全座標の基準(中立)値を返す。
func (m *KinematicModel) DefaultCoordinateValues() map[string]float64 {
	values := make(map[string]float64, len(m.coordinates))
	for name, c := range m.coordinates {
		values[name] = c.DefaultValue
	}
	return values
}

// TopologicalBodies はルートを先頭とするトポロジカル順のボディ一覧を返す。
// 順序は宣言順で決定的に固定され、走査コンテナの順序へ依存しない。
func (m *KinematicModel) TopologicalBodies() []*Body {
	return m.topological
}

// Root はルートボディを返す。
func (m *KinematicModel) Root() *Body {
	if len(m.topological) == 0 {
		return nil
	}
	return m.topological[0]
}

// Finalize は親子リンク・座標スキーマを構築し、階層の不変条件を検証する。
// 単一ルート・非循環・全ボディ到達可能でなければモデル形式エラーを返す。
func (m *KinematicModel) Finalize() error {
	if m.Bodies == nil || m.Bodies.Len() == 0 {
		return merrors.NewModelFormatError("モデルにボディがありません", nil)
	}

	m.coordinates = map[string]*Coordinate{}
	for _, body := range m.Bodies.Bodies() {
		if body.Joint == nil {
			continue
		}
		for _, c := range body.Joint.Coordinates {
			if _, ok := m.coordinates[c.Name]; ok {
				return merrors.NewModelFormatError(
					fmt.Sprintf("座標名 %s が複数の関節で宣言されています", c.Name), nil)
			}
			m.coordinates[c.Name] = c
		}
	}

	var root *Body
	for _, body := range m.Bodies.Bodies() {
		body.parent = nil
		body.children = body.children[:0]
	}
	for _, body := range m.Bodies.Bodies() {
		if body.Joint == nil {
			if root != nil {
				return merrors.NewModelFormatError(
					fmt.Sprintf("ルートボディが複数あります: %s と %s", root.Name, body.Name), nil)
			}
			root = body
			continue
		}
		if body.Joint.ChildBodyName != body.Name {
			return merrors.NewModelFormatError(
				fmt.Sprintf("関節 %s の子ボディ名 %s がボディ %s と一致しません",
					body.Joint.Name, body.Joint.ChildBodyName, body.Name), nil)
		}
		parent, ok := m.Bodies.GetByName(body.Joint.ParentBodyName)
		if !ok {
			return merrors.NewModelFormatError(
				fmt.Sprintf("ボディ %s の親 %s が見つかりません", body.Name, body.Joint.ParentBodyName), nil)
		}
		if parent == body {
			return merrors.NewModelFormatError(
				fmt.Sprintf("ボディ %s が自身を親に指定しています", body.Name), nil)
		}
		body.parent = parent
		parent.children = append(parent.children, body)
	}
	if root == nil {
		return merrors.NewModelFormatError("ルートボディがありません(循環階層の可能性)", nil)
	}

	for _, body := range m.Bodies.Bodies() {
		if body.Joint == nil {
			continue
		}
		if err := body.Joint.Finalize(m.coordinates); err != nil {
			return err
		}
	}

	// ルートからの幅優先でトポロジカル順を固定する。
	m.topological = m.topological[:0]
	queue := []*Body{root}
	visited := map[string]struct{}{root.Name: {}}
	for len(queue) > 0 {
		body := queue[0]
		queue = queue[1:]
		m.topological = append(m.topological, body)
		for _, child := range body.children {
			if _, ok := visited[child.Name]; ok {
				return merrors.NewModelFormatError(
					fmt.Sprintf("ボディ %s が複数経路から到達可能です(循環階層)", child.Name), nil)
			}
			visited[child.Name] = struct{}{}
			queue = append(queue, child)
		}
	}
	if len(m.topological) != m.Bodies.Len() {
		return merrors.NewModelFormatError(
			fmt.Sprintf("ルートから到達できないボディがあります: 到達 %d / 全体 %d",
				len(m.topological), m.Bodies.Len()), nil)
	}
	return nil
}

// ValidateBindings は全メッシュ束縛の健全性を検証する。
func (m *KinematicModel) ValidateBindings() error {
	for _, body := range m.Bodies.Bodies() {
		for _, binding := range body.Bindings {
			if binding == nil || binding.Mesh == nil {
				return merrors.NewMeshBindingError(
					fmt.Sprintf("ボディ %s に空のメッシュ束縛があります", body.Name), nil)
			}
			if err := binding.Mesh.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}
