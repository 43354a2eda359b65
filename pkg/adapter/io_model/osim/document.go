// 指示: miu200521358
package osim

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/miu200521358/mu_msmfe/pkg/domain/mmath"
)

// osimDocument は .osim ルート要素を表す。
type osimDocument struct {
	XMLName xml.Name  `xml:"OpenSimDocument"`
	Version string    `xml:"Version,attr"`
	Model   osimModel `xml:"Model"`
}

// osimModel は Model 要素を表す。
type osimModel struct {
	Name     string       `xml:"name,attr"`
	Ground   osimGround   `xml:"Ground"`
	BodySet  osimBodySet  `xml:"BodySet"`
	JointSet osimJointSet `xml:"JointSet"`
	ForceSet osimForceSet `xml:"ForceSet"`
}

// osimGround は Ground 要素を表す。
type osimGround struct {
	Name             string     `xml:"name,attr"`
	AttachedGeometry []osimMesh `xml:"attached_geometry>Mesh"`
}

// osimBodySet は BodySet 要素を表す。
type osimBodySet struct {
	Bodies []osimBody `xml:"objects>Body"`
}

// osimBody は Body 要素を表す。
type osimBody struct {
	Name             string     `xml:"name,attr"`
	AttachedGeometry []osimMesh `xml:"attached_geometry>Mesh"`
}

// osimMesh は attached_geometry の Mesh 要素を表す。
type osimMesh struct {
	Name         string `xml:"name,attr"`
	MeshFile     string `xml:"mesh_file"`
	ScaleFactors string `xml:"scale_factors"`
	Translation  string `xml:"translation"`
	Orientation  string `xml:"orientation"`
}

// osimJointSet は JointSet 要素を表す。
type osimJointSet struct {
	Objects osimJointObjects `xml:"objects"`
}

// osimJointObjects は関節種別ごとの要素名をそのまま受ける。
type osimJointObjects struct {
	Joints []osimJoint `xml:",any"`
}

// osimJoint は任意種別の関節要素を表す。要素名が種別になる。
type osimJoint struct {
	XMLName           xml.Name
	Name              string                `xml:"name,attr"`
	SocketParentFrame string                `xml:"socket_parent_frame"`
	SocketChildFrame  string                `xml:"socket_child_frame"`
	Coordinates       []osimCoordinate      `xml:"coordinates>objects>Coordinate"`
	Frames            []osimOffsetFrame     `xml:"frames>PhysicalOffsetFrame"`
	SpatialTransform  *osimSpatialTransform `xml:"SpatialTransform"`
}

// osimCoordinate は Coordinate 要素を表す。
type osimCoordinate struct {
	Name         string   `xml:"name,attr"`
	DefaultValue *float64 `xml:"default_value"`
	Range        string   `xml:"range"`
	Clamped      *bool    `xml:"clamped"`
}

// osimOffsetFrame は PhysicalOffsetFrame 要素を表す。
type osimOffsetFrame struct {
	Name         string `xml:"name,attr"`
	SocketParent string `xml:"socket_parent"`
	Translation  string `xml:"translation"`
	Orientation  string `xml:"orientation"`
}

// osimSpatialTransform は CustomJoint の SpatialTransform 要素を表す。
type osimSpatialTransform struct {
	Axes []osimTransformAxis `xml:"TransformAxis"`
}

// osimTransformAxis は TransformAxis 要素を表す。
// 未対応の関数要素(SimmSpline 等)は Unrecognized へ収集し、読込時に棄却する。
type osimTransformAxis struct {
	Name               string                  `xml:"name,attr"`
	Coordinates        string                  `xml:"coordinates"`
	Axis               string                  `xml:"axis"`
	LinearFunction     *osimLinearFunction     `xml:"LinearFunction"`
	ExpressionFunction *osimExpressionFunction `xml:"ExpressionBasedFunction"`
	Constant           *osimConstant           `xml:"Constant"`
	Unrecognized       []osimUnknownElement    `xml:",any"`
}

// osimUnknownElement は対応付けのない子要素を表す。要素名のみ保持する。
type osimUnknownElement struct {
	XMLName xml.Name
}

// osimLinearFunction は LinearFunction 要素を表す。
type osimLinearFunction struct {
	Coefficients string `xml:"coefficients"`
}

// osimExpressionFunction は式対応関数要素を表す。
type osimExpressionFunction struct {
	Expression string `xml:"expression"`
}

// osimConstant は Constant 要素を表す。
type osimConstant struct {
	Value string `xml:"value"`
}

// osimForceSet は ForceSet 要素を表す。
type osimForceSet struct {
	Objects osimForceObjects `xml:"objects"`
}

// osimForceObjects は力要素の種別ごとの要素名をそのまま受ける。
type osimForceObjects struct {
	Forces []osimForce `xml:",any"`
}

// osimForce は任意種別の力要素を表す。筋要素のみ利用する。
type osimForce struct {
	XMLName    xml.Name
	Name       string          `xml:"name,attr"`
	PathPoints []osimPathPoint `xml:"GeometryPath>PathPointSet>objects>PathPoint"`
}

// osimPathPoint は筋経路点要素を表す。
type osimPathPoint struct {
	Name              string `xml:"name,attr"`
	SocketParentFrame string `xml:"socket_parent_frame"`
	Location          string `xml:"location"`
}

// parseFloatsField は空白区切りの数値列を解釈する。空文字列は nil を返す。
func parseFloatsField(text, label string, want int) ([]float64, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil
	}
	fields := strings.Fields(trimmed)
	if len(fields) != want {
		return nil, fmt.Errorf("%s の成分数が %d ではありません: %q", label, want, text)
	}
	result := make([]float64, want)
	for i, field := range fields {
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("%s の成分を解釈できません: %q", label, field)
		}
		result[i] = value
	}
	return result, nil
}

// parseVec3Field は空白区切りの3成分を解釈する。空文字列は nil を返す。
func parseVec3Field(text, label string) (*[3]float64, error) {
	values, err := parseFloatsField(text, label, 3)
	if err != nil || values == nil {
		return nil, err
	}
	return &[3]float64{values[0], values[1], values[2]}, nil
}

// parseFrameOffset は translation / orientation(ボディ固定XYZオイラー、ラジアン)から剛体変換を構築する。
func parseFrameOffset(translation, orientation string) (mmath.RigidTransform, error) {
	offset := mmath.IdentityTransform()
	if rot, err := parseVec3Field(orientation, "orientation"); err != nil {
		return offset, err
	} else if rot != nil {
		offset = mmath.NewEulerXYZ(rot[0], rot[1], rot[2])
	}
	if trans, err := parseVec3Field(translation, "translation"); err != nil {
		return offset, err
	} else if trans != nil {
		offset.Translation = mgl64.Vec3{trans[0], trans[1], trans[2]}
	}
	return offset, nil
}

// frameBodyName はフレーム参照文字列からボディ名部分を取り出す。
// "/bodyset/femur"・"/ground"・"femur" のいずれの形式も受け付ける。
func frameBodyName(ref string) string {
	trimmed := strings.TrimSpace(ref)
	trimmed = strings.TrimPrefix(trimmed, "..")
	trimmed = strings.Trim(trimmed, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	return trimmed
}
