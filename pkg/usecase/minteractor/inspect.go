// 指示: miu200521358
package minteractor

import (
	"sort"

	"github.com/miu200521358/mu_msmfe/pkg/domain/model"
	"github.com/miu200521358/mu_msmfe/pkg/usecase/port/moutput"
)

// BodySummary はボディ1件の概要を表す。
type BodySummary struct {
	Name         string
	ParentName   string
	JointName    string
	JointKind    string
	BindingCount int
	Muscles      []string
}

// CoordinateSummary は座標1件の概要を表す。
type CoordinateSummary struct {
	Name         string
	DefaultValue float64
	RangeMin     float64
	RangeMax     float64
	Clamped      bool
	Rotational   bool
}

// ModelSummary はモデル全体の概要を表す。
type ModelSummary struct {
	Name        string
	Path        string
	BodyCount   int
	MuscleCount int
	Bodies      []BodySummary
	Coordinates []CoordinateSummary
}

// Inspect はモデルを読み込み、階層・座標・筋の概要を返す。
func (uc *TrackUsecase) Inspect(rep moutput.IModelReader, path string) (*ModelSummary, error) {
	m, err := uc.LoadModel(rep, path)
	if err != nil {
		return nil, err
	}
	return Summarize(m), nil
}

// Summarize は構築済みモデルから概要を生成する。
// ボディはトポロジカル順、座標は名前順で整列する。
func Summarize(m *model.KinematicModel) *ModelSummary {
	summary := &ModelSummary{
		Name:        m.Name,
		Path:        m.Path,
		BodyCount:   m.Bodies.Len(),
		MuscleCount: len(m.Muscles),
	}

	muscleMap := m.BodyMuscleMap()
	for _, body := range m.TopologicalBodies() {
		bs := BodySummary{
			Name:         body.Name,
			ParentName:   body.ParentName(),
			BindingCount: len(body.Bindings),
			Muscles:      muscleMap[body.Name],
		}
		if body.Joint != nil {
			bs.JointName = body.Joint.Name
			bs.JointKind = string(body.Joint.Kind)
		}
		summary.Bodies = append(summary.Bodies, bs)
	}

	for name, c := range m.CoordinateSchema() {
		summary.Coordinates = append(summary.Coordinates, CoordinateSummary{
			Name:         name,
			DefaultValue: c.DefaultValue,
			RangeMin:     c.RangeMin,
			RangeMax:     c.RangeMax,
			Clamped:      c.Clamped,
			Rotational:   c.Rotational,
		})
	}
	sort.Slice(summary.Coordinates, func(i, j int) bool {
		return summary.Coordinates[i].Name < summary.Coordinates[j].Name
	})
	return summary
}
