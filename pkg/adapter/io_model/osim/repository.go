// 指示: miu200521358
// Package osim はOpenSim形式(.osim)のモデル読み込みアダプタを提供する。
package osim

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_msmfe/pkg/adapter/io_mesh"
	"github.com/miu200521358/mu_msmfe/pkg/domain/merrors"
	"github.com/miu200521358/mu_msmfe/pkg/domain/model"
	"github.com/miu200521358/mu_msmfe/pkg/infra/mlog"
)

// geometrySubdir はメッシュ資産の既定探索サブディレクトリ。
const geometrySubdir = "Geometry"

// LoadProgressEventType はモデル読込進捗イベント種別を表す。
type LoadProgressEventType string

const (
	// LoadProgressEventTypeFileReadComplete はファイル読込完了イベントを表す。
	LoadProgressEventTypeFileReadComplete LoadProgressEventType = "file_read_complete"
	// LoadProgressEventTypeXmlParsed はXML解析完了イベントを表す。
	LoadProgressEventTypeXmlParsed LoadProgressEventType = "xml_parsed"
	// LoadProgressEventTypeBodyProcessed はボディ変換進行イベントを表す。
	LoadProgressEventTypeBodyProcessed LoadProgressEventType = "body_processed"
	// LoadProgressEventTypeMeshResolved はメッシュ資産解決イベントを表す。
	LoadProgressEventTypeMeshResolved LoadProgressEventType = "mesh_resolved"
	// LoadProgressEventTypeCompleted はモデル読込完了イベントを表す。
	LoadProgressEventTypeCompleted LoadProgressEventType = "completed"
)

// LoadProgressEvent はモデル読込進捗イベントを表す。
type LoadProgressEvent struct {
	Type          LoadProgressEventType
	FileSizeBytes int
	BodyTotal     int
	BodyDone      int
	MeshTotal     int
	MeshDone      int
}

// Repository はOpenSimモデルの読み込み契約を表す。
type Repository struct {
	meshes               *io_mesh.MeshRepository
	loadProgressReporter func(LoadProgressEvent)
}

// NewRepository はRepositoryを生成する。
func NewRepository() *Repository {
	return &Repository{meshes: io_mesh.NewMeshRepository()}
}

// SetLoadProgressReporter はモデル読込進捗受信コールバックを設定する。
func (r *Repository) SetLoadProgressReporter(reporter func(LoadProgressEvent)) {
	if r == nil {
		return
	}
	r.loadProgressReporter = reporter
}

// reportLoadProgress は進捗イベントを通知する。
func (r *Repository) reportLoadProgress(event LoadProgressEvent) {
	if r == nil || r.loadProgressReporter == nil {
		return
	}
	r.loadProgressReporter(event)
}

// CanLoad は拡張子に応じて読み込み可否を判定する。
func (r *Repository) CanLoad(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".osim")
}

// InferName はパスから表示名を推定する。
func (r *Repository) InferName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == "" {
		return base
	}
	return strings.TrimSuffix(base, ext)
}

// Load はOpenSimモデルを読み込み、運動学ツリーを構築する。
// 階層不正はモデル形式エラー、メッシュ資産の解決失敗はメッシュ束縛エラーを返す。
func (r *Repository) Load(path string) (*model.KinematicModel, error) {
	if !r.CanLoad(path) {
		return nil, merrors.NewModelFormatError(
			fmt.Sprintf("未対応のモデル形式です: %s", filepath.Ext(path)), nil).WithPath(path)
	}
	loadTargetName := filepath.Base(path)
	mlog.I("モデル読込開始: file=%s", loadTargetName)

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, merrors.NewModelFormatError("モデルファイルが見つかりません", err).WithPath(path)
		}
		return nil, merrors.NewModelFormatError("モデルファイルの読み取りに失敗しました", err).WithPath(path)
	}
	r.reportLoadProgress(LoadProgressEvent{
		Type:          LoadProgressEventTypeFileReadComplete,
		FileSizeBytes: len(b),
	})

	doc := osimDocument{}
	if err := xml.Unmarshal(b, &doc); err != nil {
		return nil, merrors.NewModelFormatError("モデルXMLの解析に失敗しました", err).WithPath(path)
	}
	r.reportLoadProgress(LoadProgressEvent{Type: LoadProgressEventTypeXmlParsed})
	mlog.I("モデル読込ステップ: XML解析完了 bodies=%d joints=%d",
		len(doc.Model.BodySet.Bodies), len(doc.Model.JointSet.Objects.Joints))

	name := doc.Model.Name
	if name == "" {
		name = r.InferName(path)
	}
	km := model.NewKinematicModel(name)
	km.Path = path

	// ルート(ground)を先頭に置き、ボディを宣言順で登録する。
	groundName := doc.Model.Ground.Name
	if groundName == "" {
		groundName = "ground"
	}
	ground := &model.Body{Name: groundName}
	if err := km.Bodies.Append(ground); err != nil {
		return nil, err
	}
	bodyTotal := len(doc.Model.BodySet.Bodies)
	for i, ob := range doc.Model.BodySet.Bodies {
		if ob.Name == "" {
			return nil, merrors.NewModelFormatError(
				fmt.Sprintf("%d 番目のボディに名前がありません", i), nil).WithPath(path)
		}
		if err := km.Bodies.Append(&model.Body{Name: ob.Name}); err != nil {
			return nil, err
		}
		r.reportLoadProgress(LoadProgressEvent{
			Type:      LoadProgressEventTypeBodyProcessed,
			BodyTotal: bodyTotal,
			BodyDone:  i + 1,
		})
	}

	for _, oj := range doc.Model.JointSet.Objects.Joints {
		joint, childName, err := buildJoint(oj)
		if err != nil {
			return nil, err
		}
		child, ok := km.Bodies.GetByName(childName)
		if !ok {
			return nil, merrors.NewModelFormatError(
				fmt.Sprintf("関節 %s の子ボディ %s が見つかりません", joint.Name, childName), nil).WithPath(path)
		}
		if child.Joint != nil {
			return nil, merrors.NewModelFormatError(
				fmt.Sprintf("ボディ %s へ複数の関節が接続されています", childName), nil).WithPath(path)
		}
		child.Joint = joint
	}

	if err := r.resolveAttachedGeometry(km, &doc, filepath.Dir(path)); err != nil {
		return nil, err
	}

	km.Muscles = buildMuscles(&doc)

	if err := km.Finalize(); err != nil {
		return nil, err
	}
	if err := km.ValidateBindings(); err != nil {
		return nil, err
	}
	r.reportLoadProgress(LoadProgressEvent{Type: LoadProgressEventTypeCompleted})
	mlog.I("モデル読込完了: file=%s bodies=%d coordinates=%d muscles=%d",
		loadTargetName, km.Bodies.Len(), len(km.CoordinateSchema()), len(km.Muscles))
	return km, nil
}

// resolveAttachedGeometry は各ボディのメッシュ資産を解決して束縛する。
func (r *Repository) resolveAttachedGeometry(km *model.KinematicModel, doc *osimDocument, baseDir string) error {
	type attachTarget struct {
		bodyName string
		meshes   []osimMesh
	}
	targets := []attachTarget{{bodyName: km.Root().Name, meshes: doc.Model.Ground.AttachedGeometry}}
	for _, ob := range doc.Model.BodySet.Bodies {
		targets = append(targets, attachTarget{bodyName: ob.Name, meshes: ob.AttachedGeometry})
	}

	meshTotal := 0
	for _, t := range targets {
		meshTotal += len(t.meshes)
	}
	meshDone := 0
	for _, t := range targets {
		body, ok := km.Bodies.GetByName(t.bodyName)
		if !ok {
			return merrors.NewModelFormatError(
				fmt.Sprintf("メッシュ束縛先ボディ %s が見つかりません", t.bodyName), nil)
		}
		for _, om := range t.meshes {
			binding, err := r.loadBinding(om, baseDir)
			if err != nil {
				return err
			}
			body.Bindings = append(body.Bindings, binding)
			meshDone++
			r.reportLoadProgress(LoadProgressEvent{
				Type:      LoadProgressEventTypeMeshResolved,
				MeshTotal: meshTotal,
				MeshDone:  meshDone,
			})
		}
	}
	return nil
}

// loadBinding はメッシュ資産を探索・読込し、スケール済みの束縛を構築する。
func (r *Repository) loadBinding(om osimMesh, baseDir string) (*model.MeshBinding, error) {
	if om.MeshFile == "" {
		return nil, merrors.NewMeshBindingError(
			fmt.Sprintf("メッシュ %s に mesh_file がありません", om.Name), nil)
	}
	meshPath, err := resolveMeshPath(baseDir, om.MeshFile)
	if err != nil {
		return nil, err
	}
	surface, err := r.meshes.Load(meshPath)
	if err != nil {
		return nil, err
	}
	if om.Name != "" {
		surface.Name = om.Name
	}

	// scale_factors は読込時に頂点へ焼き込み、実行時は剛体変換のみにする。
	scale, err := parseVec3Field(om.ScaleFactors, "scale_factors")
	if err != nil {
		return nil, merrors.NewMeshBindingError(
			fmt.Sprintf("メッシュ %s の scale_factors を解釈できません", om.Name), err)
	}
	if scale != nil && (scale[0] != 1 || scale[1] != 1 || scale[2] != 1) {
		for i, v := range surface.Vertices {
			surface.Vertices[i].X = v.X * scale[0]
			surface.Vertices[i].Y = v.Y * scale[1]
			surface.Vertices[i].Z = v.Z * scale[2]
		}
	}

	offset, err := parseFrameOffset(om.Translation, om.Orientation)
	if err != nil {
		return nil, merrors.NewMeshBindingError(
			fmt.Sprintf("メッシュ %s の取付オフセットを解釈できません", om.Name), err)
	}
	return &model.MeshBinding{Mesh: surface, Offset: offset}, nil
}

// resolveMeshPath はモデルディレクトリ直下と Geometry/ 配下を探索する。
func resolveMeshPath(baseDir, meshFile string) (string, error) {
	candidates := []string{
		filepath.Join(baseDir, meshFile),
		filepath.Join(baseDir, geometrySubdir, meshFile),
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", merrors.NewMeshBindingError(
		fmt.Sprintf("メッシュ資産 %s を解決できません(探索: %s)", meshFile, strings.Join(candidates, ", ")), nil)
}
