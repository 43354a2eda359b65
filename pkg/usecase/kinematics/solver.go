// 指示: miu200521358
// Package kinematics は運動学ツリーの順運動学ソルバを提供する。
package kinematics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/miu200521358/mu_msmfe/pkg/domain/merrors"
	"github.com/miu200521358/mu_msmfe/pkg/domain/mmath"
	"github.com/miu200521358/mu_msmfe/pkg/domain/model"
	"github.com/miu200521358/mu_msmfe/pkg/domain/motion"
)

// Options は順運動学解決のオプションを表す。
type Options struct {
	// Strict は可動範囲外の座標値をクランプせず、フレームを中断する。
	Strict bool
	// Filters は追跡対象とする座標名の部分一致フィルタ。空なら全対象。
	Filters []string
	// InvertFilter はフィルタの意味を反転し、一致した座標を除外する。
	InvertFilter bool
}

// Warning はフレーム解決中に発生した回復可能な事象を表す。
type Warning struct {
	ID         string
	Coordinate string
	Value      float64
	Applied    float64
}

// String は警告の表示文字列を返す。
func (w Warning) String() string {
	return fmt.Sprintf("%s: coordinate=%s value=%g applied=%g", w.ID, w.Coordinate, w.Value, w.Applied)
}

// matchesFilter は座標名がフィルタのいずれかを部分一致で満たすか判定する。
func matchesFilter(name string, filters []string) bool {
	for _, f := range filters {
		if strings.Contains(name, f) {
			return true
		}
	}
	return false
}

// Solve は1フレームの順運動学を解決し、全ボディの世界座標系姿勢を返す。
// ツリーをルートから順に走査し、親の解決済み姿勢へ関節変換を合成する。
// 同一入力に対して結果はビット単位で決定的。
func Solve(m *model.KinematicModel, frame *motion.Frame, inDegrees bool, opts Options) (*model.PoseSet, []Warning, error) {
	if m == nil || m.Root() == nil {
		return nil, nil, merrors.NewTrackError("モデルが初期化されていません", nil)
	}
	if frame == nil {
		return nil, nil, merrors.NewSolveError("フレームが未設定です", nil)
	}

	warnings := []Warning{}
	values := m.DefaultCoordinateValues()

	// 警告順を固定するため、座標名順で処理する。
	names := make([]string, 0, len(frame.Values))
	for name := range frame.Values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		raw := frame.Values[name]
		coord, ok := m.Coordinate(name)
		if !ok {
			// スキーマ整合はローダではなく解決時に遅延検査する。
			return nil, nil, merrors.NewMotionFormatError(
				fmt.Sprintf("フレーム %d の座標 %s はモデルに宣言されていません", frame.Index, name), nil)
		}
		if len(opts.Filters) > 0 && matchesFilter(name, opts.Filters) == opts.InvertFilter {
			warnings = append(warnings, Warning{
				ID:         model.TrackWarningCoordinateFiltered,
				Coordinate: name,
				Value:      raw,
				Applied:    coord.DefaultValue,
			})
			continue
		}

		value := raw
		if inDegrees && coord.Rotational {
			value = mmath.DegToRad(value)
		}
		if !coord.InRange(value) {
			if opts.Strict {
				return nil, warnings, merrors.NewSolveError(
					fmt.Sprintf("フレーム %d の座標 %s が可動範囲外です: value=%g range=[%g, %g]",
						frame.Index, name, value, coord.RangeMin, coord.RangeMax), nil)
			}
			clamped, _ := coord.ClampValue(value)
			warnings = append(warnings, Warning{
				ID:         model.TrackWarningCoordinateClamped,
				Coordinate: name,
				Value:      value,
				Applied:    clamped,
			})
			value = clamped
		}
		values[name] = value
	}

	// フレームが参照しない宣言済み座標は基準値のまま残る。
	defaulted := make([]string, 0)
	for name := range m.CoordinateSchema() {
		if _, ok := frame.Values[name]; !ok {
			defaulted = append(defaulted, name)
		}
	}
	sort.Strings(defaulted)
	for _, name := range defaulted {
		warnings = append(warnings, Warning{
			ID:         model.TrackWarningCoordinateDefaulted,
			Coordinate: name,
			Value:      values[name],
			Applied:    values[name],
		})
	}

	poses := model.NewPoseSet(frame.Index, frame.Time, m.Bodies.Len())
	for _, body := range m.TopologicalBodies() {
		if body.IsRoot() {
			poses.Set(body.Name, m.WorldAnchor)
			continue
		}
		parentPose, ok := poses.Get(body.ParentName())
		if !ok {
			return nil, warnings, merrors.NewTrackError(
				fmt.Sprintf("ボディ %s の親 %s が未解決です", body.Name, body.ParentName()), nil)
		}
		local, err := body.Joint.Transform(values)
		if err != nil {
			return nil, warnings, err
		}
		poses.Set(body.Name, parentPose.Mul(local))
	}
	return poses, warnings, nil
}
