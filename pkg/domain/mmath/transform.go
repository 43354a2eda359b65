// 指示: miu200521358
// Package mmath は剛体変換と角度変換のユーティリティを提供する。
package mmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/spatial/r3"
)

// RigidTransform は回転と並進からなる剛体変換を表す。
// 回転は単位クォータニオンで保持し、オイラー角順序の曖昧さを持ち込まない。
type RigidTransform struct {
	Rotation    mgl64.Quat
	Translation mgl64.Vec3
}

// NewRigidTransform は回転と並進から剛体変換を生成する。
func NewRigidTransform(rotation mgl64.Quat, translation mgl64.Vec3) RigidTransform {
	return RigidTransform{Rotation: rotation.Normalize(), Translation: translation}
}

// IdentityTransform は恒等変換を返す。
func IdentityTransform() RigidTransform {
	return RigidTransform{Rotation: mgl64.QuatIdent(), Translation: mgl64.Vec3{}}
}

// NewTranslation は並進のみの剛体変換を生成する。
func NewTranslation(translation mgl64.Vec3) RigidTransform {
	return RigidTransform{Rotation: mgl64.QuatIdent(), Translation: translation}
}

// NewRotationAxisAngle は軸と角度(ラジアン)から回転のみの剛体変換を生成する。
func NewRotationAxisAngle(axis mgl64.Vec3, angle float64) RigidTransform {
	if axis.Len() <= 0 {
		return IdentityTransform()
	}
	return RigidTransform{
		Rotation:    mgl64.QuatRotate(angle, axis.Normalize()),
		Translation: mgl64.Vec3{},
	}
}

// NewEulerXYZ はボディ固定XYZオイラー角(ラジアン)から回転のみの剛体変換を生成する。
func NewEulerXYZ(x, y, z float64) RigidTransform {
	return RigidTransform{
		Rotation:    mgl64.AnglesToQuat(x, y, z, mgl64.XYZ).Normalize(),
		Translation: mgl64.Vec3{},
	}
}

// Mul は自身を親側として t を合成した剛体変換を返す。
func (tr RigidTransform) Mul(t RigidTransform) RigidTransform {
	return RigidTransform{
		Rotation:    tr.Rotation.Mul(t.Rotation).Normalize(),
		Translation: tr.Translation.Add(tr.Rotation.Rotate(t.Translation)),
	}
}

// Inverse は逆変換を返す。
func (tr RigidTransform) Inverse() RigidTransform {
	inv := tr.Rotation.Inverse()
	return RigidTransform{
		Rotation:    inv,
		Translation: inv.Rotate(tr.Translation).Mul(-1),
	}
}

// ApplyPoint は点へ剛体変換を適用する。
func (tr RigidTransform) ApplyPoint(p mgl64.Vec3) mgl64.Vec3 {
	return tr.Rotation.Rotate(p).Add(tr.Translation)
}

// ApplyVec は方向ベクトルへ回転成分のみを適用する。
func (tr RigidTransform) ApplyVec(v mgl64.Vec3) mgl64.Vec3 {
	return tr.Rotation.Rotate(v)
}

// ApplyR3 はメッシュ頂点座標(gonum r3.Vec)へ剛体変換を適用する。
func (tr RigidTransform) ApplyR3(p r3.Vec) r3.Vec {
	q := tr.ApplyPoint(mgl64.Vec3{p.X, p.Y, p.Z})
	return r3.Vec{X: q.X(), Y: q.Y(), Z: q.Z()}
}

// NearEqual は成分ごとの許容誤差付き比較を行う。
func (tr RigidTransform) NearEqual(other RigidTransform, eps float64) bool {
	d := tr.Translation.Sub(other.Translation)
	if math.Abs(d.X()) > eps || math.Abs(d.Y()) > eps || math.Abs(d.Z()) > eps {
		return false
	}
	// q と -q は同一回転を表す。
	dot := tr.Rotation.Dot(other.Rotation)
	return math.Abs(math.Abs(dot)-1.0) <= eps
}

// DegToRad は度をラジアンへ変換する。
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// RadToDeg はラジアンを度へ変換する。
func RadToDeg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

// Clamp は値を [min, max] に収める。
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
