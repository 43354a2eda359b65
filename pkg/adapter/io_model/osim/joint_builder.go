// 指示: miu200521358
package osim

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/miu200521358/mu_msmfe/pkg/domain/merrors"
	"github.com/miu200521358/mu_msmfe/pkg/domain/mmath"
	"github.com/miu200521358/mu_msmfe/pkg/domain/model"
)

// buildJoint は関節要素を種別に応じてドメインの関節へ正規化する。
// 種別ごとの違いは変換軸列へ展開され、戻り値の第2要素は子ボディ名。
func buildJoint(oj osimJoint) (*model.Joint, string, error) {
	kind := model.JointKind(oj.XMLName.Local)
	parentName, parentOffset, err := resolveFrame(oj, oj.SocketParentFrame)
	if err != nil {
		return nil, "", err
	}
	childName, childOffset, err := resolveFrame(oj, oj.SocketChildFrame)
	if err != nil {
		return nil, "", err
	}
	if parentName == "" || childName == "" {
		return nil, "", merrors.NewModelFormatError(
			fmt.Sprintf("関節 %s の親子フレーム参照が不完全です", oj.Name), nil)
	}

	joint := &model.Joint{
		Name:           oj.Name,
		Kind:           kind,
		ParentBodyName: parentName,
		ChildBodyName:  childName,
		ParentOffset:   parentOffset,
		ChildOffset:    childOffset,
	}

	coords, err := buildCoordinates(oj)
	if err != nil {
		return nil, "", err
	}
	joint.Coordinates = coords

	axes, err := buildAxes(oj, coords)
	if err != nil {
		return nil, "", err
	}
	joint.Axes = axes
	return joint, childName, nil
}

// resolveFrame はソケット参照をボディ名と固定オフセットへ解決する。
// 参照先が関節内の PhysicalOffsetFrame の場合はその親ボディとオフセットを辿る。
func resolveFrame(oj osimJoint, ref string) (string, mmath.RigidTransform, error) {
	name := frameBodyName(ref)
	if name == "" {
		return "", mmath.IdentityTransform(), nil
	}
	for _, frame := range oj.Frames {
		if frame.Name != name {
			continue
		}
		offset, err := parseFrameOffset(frame.Translation, frame.Orientation)
		if err != nil {
			return "", mmath.IdentityTransform(), merrors.NewModelFormatError(
				fmt.Sprintf("関節 %s のフレーム %s を解釈できません", oj.Name, name), err)
		}
		return frameBodyName(frame.SocketParent), offset, nil
	}
	return name, mmath.IdentityTransform(), nil
}

// buildCoordinates は関節の座標宣言を解釈する。
func buildCoordinates(oj osimJoint) ([]*model.Coordinate, error) {
	coords := make([]*model.Coordinate, 0, len(oj.Coordinates))
	for _, oc := range oj.Coordinates {
		if oc.Name == "" {
			return nil, merrors.NewModelFormatError(
				fmt.Sprintf("関節 %s に無名の座標があります", oj.Name), nil)
		}
		coord := &model.Coordinate{Name: oc.Name}
		if oc.DefaultValue != nil {
			coord.DefaultValue = *oc.DefaultValue
		}
		if oc.Clamped != nil {
			coord.Clamped = *oc.Clamped
		}
		if rangeValues, err := parseFloatsField(oc.Range, "range", 2); err != nil {
			return nil, merrors.NewModelFormatError(
				fmt.Sprintf("座標 %s の range を解釈できません", oc.Name), err)
		} else if rangeValues != nil {
			coord.RangeMin = rangeValues[0]
			coord.RangeMax = rangeValues[1]
		} else if coord.Clamped {
			return nil, merrors.NewModelFormatError(
				fmt.Sprintf("座標 %s は clamped 指定ですが range がありません", oc.Name), nil)
		}
		coords = append(coords, coord)
	}
	return coords, nil
}

// buildAxes は関節種別に応じて変換軸列を合成する。
// 座標の回転・並進属性はここで確定する。
func buildAxes(oj osimJoint, coords []*model.Coordinate) ([]*model.TransformAxis, error) {
	kind := model.JointKind(oj.XMLName.Local)
	switch kind {
	case model.JointKindWeld:
		if len(coords) != 0 {
			return nil, merrors.NewModelFormatError(
				fmt.Sprintf("固定関節 %s に座標が宣言されています", oj.Name), nil)
		}
		return nil, nil

	case model.JointKindPin:
		if len(coords) != 1 {
			return nil, merrors.NewModelFormatError(
				fmt.Sprintf("回転関節 %s の座標数が1ではありません: %d", oj.Name, len(coords)), nil)
		}
		coords[0].Rotational = true
		return []*model.TransformAxis{{
			Name:           oj.Name + "_rotation",
			Axis:           mgl64.Vec3{0, 0, 1},
			Rotational:     true,
			CoordinateName: coords[0].Name,
		}}, nil

	case model.JointKindSlider:
		if len(coords) != 1 {
			return nil, merrors.NewModelFormatError(
				fmt.Sprintf("並進関節 %s の座標数が1ではありません: %d", oj.Name, len(coords)), nil)
		}
		return []*model.TransformAxis{{
			Name:           oj.Name + "_translation",
			Axis:           mgl64.Vec3{1, 0, 0},
			CoordinateName: coords[0].Name,
		}}, nil

	case model.JointKindBall:
		if len(coords) != 3 {
			return nil, merrors.NewModelFormatError(
				fmt.Sprintf("球関節 %s の座標数が3ではありません: %d", oj.Name, len(coords)), nil)
		}
		axes := make([]*model.TransformAxis, 0, 3)
		unit := [3]mgl64.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
		for i, coord := range coords {
			coord.Rotational = true
			axes = append(axes, &model.TransformAxis{
				Name:           fmt.Sprintf("%s_rotation%d", oj.Name, i+1),
				Axis:           unit[i],
				Rotational:     true,
				CoordinateName: coord.Name,
			})
		}
		return axes, nil

	case model.JointKindFree:
		if len(coords) != 6 {
			return nil, merrors.NewModelFormatError(
				fmt.Sprintf("自由関節 %s の座標数が6ではありません: %d", oj.Name, len(coords)), nil)
		}
		axes := make([]*model.TransformAxis, 0, 6)
		unit := [3]mgl64.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
		for i, coord := range coords {
			rotational := i < 3
			coord.Rotational = rotational
			axes = append(axes, &model.TransformAxis{
				Name:           fmt.Sprintf("%s_axis%d", oj.Name, i+1),
				Axis:           unit[i%3],
				Rotational:     rotational,
				CoordinateName: coord.Name,
			})
		}
		return axes, nil

	case model.JointKindCustom:
		return buildCustomAxes(oj, coords)
	}

	return nil, merrors.NewModelFormatError(
		fmt.Sprintf("未対応の関節種別です: %s (関節 %s)", oj.XMLName.Local, oj.Name), nil)
}

// buildCustomAxes は SpatialTransform の変換軸列を解釈する。
// 軸名が rotation で始まる軸を回転軸として扱う。
func buildCustomAxes(oj osimJoint, coords []*model.Coordinate) ([]*model.TransformAxis, error) {
	if oj.SpatialTransform == nil || len(oj.SpatialTransform.Axes) == 0 {
		return nil, merrors.NewModelFormatError(
			fmt.Sprintf("カスタム関節 %s に SpatialTransform がありません", oj.Name), nil)
	}

	coordByName := map[string]*model.Coordinate{}
	for _, coord := range coords {
		coordByName[coord.Name] = coord
	}

	axes := make([]*model.TransformAxis, 0, len(oj.SpatialTransform.Axes))
	for _, oa := range oj.SpatialTransform.Axes {
		axisVec, err := parseVec3Field(oa.Axis, "axis")
		if err != nil {
			return nil, merrors.NewModelFormatError(
				fmt.Sprintf("関節 %s の変換軸 %s を解釈できません", oj.Name, oa.Name), err)
		}
		if axisVec == nil {
			return nil, merrors.NewModelFormatError(
				fmt.Sprintf("関節 %s の変換軸 %s に axis がありません", oj.Name, oa.Name), nil)
		}
		// 未対応の関数種別を恒等対応として通すと誤った運動学になるため、ここで棄却する。
		if len(oa.Unrecognized) > 0 {
			return nil, merrors.NewModelFormatError(
				fmt.Sprintf("関節 %s の変換軸 %s の関数種別 %s には対応していません",
					oj.Name, oa.Name, oa.Unrecognized[0].XMLName.Local), nil)
		}

		rotational := strings.HasPrefix(strings.ToLower(oa.Name), "rotation")
		axis := &model.TransformAxis{
			Name:       fmt.Sprintf("%s_%s", oj.Name, oa.Name),
			Axis:       mgl64.Vec3{axisVec[0], axisVec[1], axisVec[2]},
			Rotational: rotational,
		}

		coordNames := strings.Fields(oa.Coordinates)
		switch {
		case oa.ExpressionFunction != nil:
			axis.Expression = strings.TrimSpace(oa.ExpressionFunction.Expression)
			if axis.Expression == "" {
				return nil, merrors.NewModelFormatError(
					fmt.Sprintf("関節 %s の変換軸 %s の式が空です", oj.Name, oa.Name), nil)
			}
		case oa.Constant != nil:
			// Constant は座標宣言の有無によらず入力を無視した固定値。
			values, err := parseFloatsField(oa.Constant.Value, "value", 1)
			if err != nil || values == nil {
				return nil, merrors.NewModelFormatError(
					fmt.Sprintf("関節 %s の変換軸 %s の固定値を解釈できません", oj.Name, oa.Name), err)
			}
			axis.Constant = values[0]
		case len(coordNames) == 1:
			axis.CoordinateName = coordNames[0]
			if oa.LinearFunction != nil {
				values, err := parseFloatsField(oa.LinearFunction.Coefficients, "coefficients", 2)
				if err != nil || values == nil {
					return nil, merrors.NewModelFormatError(
						fmt.Sprintf("関節 %s の変換軸 %s の係数を解釈できません", oj.Name, oa.Name), err)
				}
				axis.LinearCoefficients = values
			}
			if coord, ok := coordByName[coordNames[0]]; ok && rotational {
				coord.Rotational = true
			}
		case len(coordNames) == 0:
			// 関数も座標もない軸は固定軸(値0)。
		default:
			return nil, merrors.NewModelFormatError(
				fmt.Sprintf("関節 %s の変換軸 %s が複数座標を参照しています(式対応を使ってください)", oj.Name, oa.Name), nil)
		}
		axes = append(axes, axis)
	}
	return axes, nil
}

// buildMuscles は ForceSet から筋要素のみを抽出する。
func buildMuscles(doc *osimDocument) []*model.Muscle {
	muscles := []*model.Muscle{}
	for _, of := range doc.Model.ForceSet.Objects.Forces {
		if !strings.Contains(of.XMLName.Local, "Muscle") {
			continue
		}
		muscle := &model.Muscle{Name: of.Name}
		for _, op := range of.PathPoints {
			location := mgl64.Vec3{}
			if v, err := parseVec3Field(op.Location, "location"); err == nil && v != nil {
				location = mgl64.Vec3{v[0], v[1], v[2]}
			}
			muscle.PathPoints = append(muscle.PathPoints, &model.PathPoint{
				Name:     op.Name,
				BodyName: frameBodyName(op.SocketParentFrame),
				Location: location,
			})
		}
		muscles = append(muscles, muscle)
	}
	return muscles
}
