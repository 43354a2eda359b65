// 指示: miu200521358
package model

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	govaluate "gopkg.in/Knetic/govaluate.v3"

	"github.com/miu200521358/mu_msmfe/pkg/domain/merrors"
	"github.com/miu200521358/mu_msmfe/pkg/domain/mmath"
)

// JointKind は関節種別を表す。
// 種別ごとの違いは変換軸列へ正規化されるため、ソルバは種別に依存しない。
type JointKind string

const (
	// JointKindWeld は自由度0の固定関節を表す。
	JointKindWeld JointKind = "WeldJoint"
	// JointKindPin は回転1自由度の関節を表す。
	JointKindPin JointKind = "PinJoint"
	// JointKindSlider は並進1自由度の関節を表す。
	JointKindSlider JointKind = "SliderJoint"
	// JointKindBall は回転3自由度の関節を表す。
	JointKindBall JointKind = "BallJoint"
	// JointKindFree は回転3+並進3自由度の関節を表す。
	JointKindFree JointKind = "FreeJoint"
	// JointKindCustom は変換軸列を明示指定する関節を表す。
	JointKindCustom JointKind = "CustomJoint"
)

// Coordinate は一般化座標(自由度)を表す。
type Coordinate struct {
	Name         string
	DefaultValue float64
	RangeMin     float64
	RangeMax     float64
	Clamped      bool
	Rotational   bool
}

// InRange は値が可動範囲内か判定する。範囲未設定(非クランプ)は常に真。
func (c *Coordinate) InRange(value float64) bool {
	if !c.Clamped {
		return true
	}
	return value >= c.RangeMin && value <= c.RangeMax
}

// ClampValue は値を可動範囲へ収める。第2戻り値はクランプが発生したか。
func (c *Coordinate) ClampValue(value float64) (float64, bool) {
	if !c.Clamped || c.InRange(value) {
		return value, false
	}
	return mmath.Clamp(value, c.RangeMin, c.RangeMax), true
}

// TransformAxis は座標値から回転または並進への対応を表す。
// 対応関数は恒等(座標値そのまま)、線形、式評価のいずれか。
type TransformAxis struct {
	Name           string
	Axis           mgl64.Vec3
	Rotational     bool
	CoordinateName string
	// LinearCoefficients は長さ2の [傾き, 切片]。単独座標の線形対応に使う。
	LinearCoefficients []float64
	// Expression は複数座標を結合する式(例: "0.5 * knee_angle")。
	Expression string
	// Constant は座標に依存しない固定値。座標も式もない軸で使う。
	Constant float64

	compiled *govaluate.EvaluableExpression
}

// compile は式対応の事前コンパイルを行う。
func (a *TransformAxis) compile() error {
	if a.Expression == "" {
		a.compiled = nil
		return nil
	}
	expr, err := govaluate.NewEvaluableExpression(a.Expression)
	if err != nil {
		return merrors.NewModelFormatError(
			fmt.Sprintf("変換軸 %s の式を解釈できません: %s", a.Name, a.Expression), err)
	}
	a.compiled = expr
	return nil
}

// Value は座標値集合から軸のスカラー値を求める。
func (a *TransformAxis) Value(values map[string]float64) (float64, error) {
	if a.compiled != nil {
		params := make(map[string]interface{}, len(values))
		for name, v := range values {
			params[name] = v
		}
		result, err := a.compiled.Evaluate(params)
		if err != nil {
			return 0, merrors.NewSolveError(
				fmt.Sprintf("変換軸 %s の式評価に失敗しました", a.Name), err)
		}
		scalar, ok := result.(float64)
		if !ok {
			return 0, merrors.NewSolveError(
				fmt.Sprintf("変換軸 %s の式が数値を返しませんでした: %T", a.Name, result), nil)
		}
		return scalar, nil
	}

	if a.CoordinateName == "" {
		return a.Constant, nil
	}
	q, ok := values[a.CoordinateName]
	if !ok {
		return 0, merrors.NewSolveError(
			fmt.Sprintf("変換軸 %s の座標 %s が未解決です", a.Name, a.CoordinateName), nil)
	}
	if len(a.LinearCoefficients) == 2 {
		return a.LinearCoefficients[0]*q + a.LinearCoefficients[1], nil
	}
	return q, nil
}

// Joint は子ボディの親に対する座標依存変換を表す。
type Joint struct {
	Name           string
	Kind           JointKind
	ParentBodyName string
	ChildBodyName  string
	// ParentOffset は親ボディ座標系における関節フレームへの固定変換。
	ParentOffset mmath.RigidTransform
	// ChildOffset は子ボディ座標系における関節フレームへの固定変換。
	ChildOffset mmath.RigidTransform
	Coordinates []*Coordinate
	Axes        []*TransformAxis
}

// Finalize は軸の式コンパイルと座標参照の整合検証を行う。
// schema はモデル全体の座標集合。
func (j *Joint) Finalize(schema map[string]*Coordinate) error {
	declared := map[string]struct{}{}
	for _, c := range j.Coordinates {
		if c.Name == "" {
			return merrors.NewModelFormatError(
				fmt.Sprintf("関節 %s に無名の座標があります", j.Name), nil)
		}
		if _, ok := declared[c.Name]; ok {
			return merrors.NewModelFormatError(
				fmt.Sprintf("関節 %s の座標 %s が重複しています", j.Name, c.Name), nil)
		}
		declared[c.Name] = struct{}{}
	}

	referenced := map[string]struct{}{}
	for _, axis := range j.Axes {
		if err := axis.compile(); err != nil {
			return err
		}
		if axis.compiled != nil {
			for _, v := range axis.compiled.Vars() {
				coord, ok := schema[v]
				if !ok {
					return merrors.NewModelFormatError(
						fmt.Sprintf("関節 %s の式が未宣言座標 %s を参照しています", j.Name, v), nil)
				}
				// 回転軸を駆動する座標は度→ラジアン変換の対象になる。
				if axis.Rotational {
					coord.Rotational = true
				}
				referenced[v] = struct{}{}
			}
			continue
		}
		if axis.CoordinateName == "" {
			continue
		}
		coord, ok := schema[axis.CoordinateName]
		if !ok {
			return merrors.NewModelFormatError(
				fmt.Sprintf("関節 %s の変換軸 %s が未宣言座標 %s を参照しています",
					j.Name, axis.Name, axis.CoordinateName), nil)
		}
		if axis.Rotational {
			coord.Rotational = true
		}
		referenced[axis.CoordinateName] = struct{}{}
	}

	// 宣言した自由度が変換に一切現れない場合は次元不一致として弾く。
	for _, c := range j.Coordinates {
		if _, ok := referenced[c.Name]; !ok {
			return merrors.NewModelFormatError(
				fmt.Sprintf("関節 %s の座標 %s がどの変換軸からも参照されていません", j.Name, c.Name), nil)
		}
	}
	return nil
}

// Transform は座標値集合から子の親相対剛体変換を求める。
// 変換は宣言順に合成され、座標表現はクォータニオンで統一する。
func (j *Joint) Transform(values map[string]float64) (mmath.RigidTransform, error) {
	motionPart := mmath.IdentityTransform()
	for _, axis := range j.Axes {
		scalar, err := axis.Value(values)
		if err != nil {
			return mmath.IdentityTransform(), err
		}
		var step mmath.RigidTransform
		if axis.Rotational {
			step = mmath.NewRotationAxisAngle(axis.Axis, scalar)
		} else {
			direction := axis.Axis
			if length := direction.Len(); length > 0 {
				direction = direction.Mul(1.0 / length)
			}
			step = mmath.NewTranslation(direction.Mul(scalar))
		}
		motionPart = motionPart.Mul(step)
	}
	return j.ParentOffset.Mul(motionPart).Mul(j.ChildOffset.Inverse()), nil
}
