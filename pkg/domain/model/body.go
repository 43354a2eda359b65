// 指示: miu200521358
// Package model は筋骨格モデルの運動学ツリーを表すドメイン型を提供する。
package model

import (
	"fmt"

	"github.com/miu200521358/mu_msmfe/pkg/domain/merrors"
	"github.com/miu200521358/mu_msmfe/pkg/domain/mesh"
	"github.com/miu200521358/mu_msmfe/pkg/domain/mmath"
)

// MeshBinding はボディへ束縛された基準メッシュを表す。
// メッシュは所属ボディのローカル座標系・基準姿勢で表現され、束縛後は不変。
type MeshBinding struct {
	Mesh *mesh.SurfaceMesh
	// Offset は基準姿勢からボディローカル座標系への変換(既にローカルなら恒等)。
	Offset mmath.RigidTransform
}

// Body は運動学ツリーの1ボディ(剛体セグメント)を表す。
type Body struct {
	Name  string
	Index int
	// Joint は親ボディと結ぶ関節。ルートのみ nil。
	Joint    *Joint
	Bindings []*MeshBinding

	parent   *Body
	children []*Body
}

// ParentName は親ボディ名を返す。ルートは空文字列。
func (b *Body) ParentName() string {
	if b.Joint == nil {
		return ""
	}
	return b.Joint.ParentBodyName
}

// Parent は親ボディを返す。ルートは nil。
func (b *Body) Parent() *Body {
	return b.parent
}

// Children は宣言順の子ボディ一覧を返す。
func (b *Body) Children() []*Body {
	return b.children
}

// IsRoot はルートボディか判定する。
func (b *Body) IsRoot() bool {
	return b.Joint == nil
}

// BodyCollection は宣言順を保持するボディ集合を表す。
type BodyCollection struct {
	bodies []*Body
	byName map[string]*Body
}

// NewBodyCollection は空のボディ集合を生成する。
func NewBodyCollection() *BodyCollection {
	return &BodyCollection{byName: map[string]*Body{}}
}

// Append はボディを追加する。名前重複はモデル形式エラー。
func (c *BodyCollection) Append(body *Body) error {
	if body == nil || body.Name == "" {
		return merrors.NewModelFormatError("無名のボディは追加できません", nil)
	}
	if _, ok := c.byName[body.Name]; ok {
		return merrors.NewModelFormatError(
			fmt.Sprintf("ボディ名 %s が重複しています", body.Name), nil)
	}
	body.Index = len(c.bodies)
	c.bodies = append(c.bodies, body)
	c.byName[body.Name] = body
	return nil
}

// GetByName は名前でボディを取得する。
func (c *BodyCollection) GetByName(name string) (*Body, bool) {
	body, ok := c.byName[name]
	return body, ok
}

// Len はボディ数を返す。
func (c *BodyCollection) Len() int {
	return len(c.bodies)
}

// Bodies は宣言順のボディ一覧を返す。
func (c *BodyCollection) Bodies() []*Body {
	return c.bodies
}
