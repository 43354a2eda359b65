// 指示: miu200521358
package osim

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/miu200521358/mu_msmfe/pkg/domain/merrors"
	"github.com/miu200521358/mu_msmfe/pkg/domain/model"
)

const armModelXML = `<?xml version="1.0" encoding="UTF-8"?>
<OpenSimDocument Version="40000">
  <Model name="arm1dof">
    <Ground name="ground"/>
    <BodySet>
      <objects>
        <Body name="humerus">
          <attached_geometry>
            <Mesh name="humerus_geom">
              <mesh_file>humerus.obj</mesh_file>
              <scale_factors>2 1 1</scale_factors>
            </Mesh>
          </attached_geometry>
        </Body>
      </objects>
    </BodySet>
    <JointSet>
      <objects>
        <PinJoint name="shoulder">
          <socket_parent_frame>shoulder_offset</socket_parent_frame>
          <socket_child_frame>/bodyset/humerus</socket_child_frame>
          <coordinates>
            <objects>
              <Coordinate name="shoulder_flex">
                <default_value>0.1</default_value>
                <range>-1.5 1.5</range>
                <clamped>true</clamped>
              </Coordinate>
            </objects>
          </coordinates>
          <frames>
            <PhysicalOffsetFrame name="shoulder_offset">
              <socket_parent>/ground</socket_parent>
              <translation>0 0.8 0</translation>
            </PhysicalOffsetFrame>
          </frames>
        </PinJoint>
      </objects>
    </JointSet>
    <ForceSet>
      <objects>
        <Thelen2003Muscle name="deltoid">
          <GeometryPath>
            <PathPointSet>
              <objects>
                <PathPoint name="deltoid_origin">
                  <socket_parent_frame>/ground</socket_parent_frame>
                  <location>0 0.7 0.05</location>
                </PathPoint>
                <PathPoint name="deltoid_insertion">
                  <socket_parent_frame>/bodyset/humerus</socket_parent_frame>
                  <location>0 -0.1 0.01</location>
                </PathPoint>
              </objects>
            </PathPointSet>
          </GeometryPath>
        </Thelen2003Muscle>
      </objects>
    </ForceSet>
  </Model>
</OpenSimDocument>
`

const humerusObj = `v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`

// writeArmModel は .osim 本体と Geometry/ 配下のメッシュ資産を配置する。
func writeArmModel(t *testing.T, modelXML string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "Geometry"), 0o755); err != nil {
		t.Fatalf("geometry dir failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "Geometry", "humerus.obj"), []byte(humerusObj), 0o644); err != nil {
		t.Fatalf("mesh fixture failed: %v", err)
	}
	path := filepath.Join(dir, "arm1dof.osim")
	if err := os.WriteFile(path, []byte(modelXML), 0o644); err != nil {
		t.Fatalf("model fixture failed: %v", err)
	}
	return path
}

func TestRepositoryCanLoadAndInferName(t *testing.T) {
	rep := NewRepository()
	if !rep.CanLoad("arm26.osim") || !rep.CanLoad("ARM26.OSIM") {
		t.Fatalf("supported extension rejected")
	}
	if rep.CanLoad("arm26.xml") {
		t.Fatalf("unsupported extension accepted")
	}
	if got := rep.InferName("models/arm26.osim"); got != "arm26" {
		t.Fatalf("inferred name mismatch: %s", got)
	}
}

func TestRepositoryLoadBuildsKinematicModel(t *testing.T) {
	path := writeArmModel(t, armModelXML)
	km, err := NewRepository().Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if km.Name != "arm1dof" {
		t.Fatalf("model name mismatch: %s", km.Name)
	}
	if km.Root().Name != "ground" {
		t.Fatalf("root mismatch: %s", km.Root().Name)
	}

	humerus, ok := km.Bodies.GetByName("humerus")
	if !ok || humerus.Joint == nil {
		t.Fatalf("humerus body or joint missing")
	}
	if humerus.Joint.Kind != model.JointKindPin || humerus.Joint.ParentBodyName != "ground" {
		t.Fatalf("joint mismatch: %s %s", humerus.Joint.Kind, humerus.Joint.ParentBodyName)
	}
	// PhysicalOffsetFrame の並進が親オフセットへ解決される。
	if got := humerus.Joint.ParentOffset.Translation; got[1] != 0.8 {
		t.Fatalf("parent offset mismatch: %v", got)
	}

	coord, ok := km.Coordinate("shoulder_flex")
	if !ok {
		t.Fatalf("coordinate missing")
	}
	if coord.DefaultValue != 0.1 || !coord.Clamped || coord.RangeMax != 1.5 || !coord.Rotational {
		t.Fatalf("coordinate attributes mismatch: %+v", coord)
	}

	if len(humerus.Bindings) != 1 {
		t.Fatalf("binding count mismatch: %d", len(humerus.Bindings))
	}
	surface := humerus.Bindings[0].Mesh
	if surface.Name != "humerus_geom" {
		t.Fatalf("binding mesh name mismatch: %s", surface.Name)
	}
	// scale_factors は読込時に頂点へ焼き込まれる。
	if surface.Vertices[1].X != 2 {
		t.Fatalf("scale not applied: %v", surface.Vertices[1])
	}

	if len(km.Muscles) != 1 || km.Muscles[0].Name != "deltoid" {
		t.Fatalf("muscle extraction mismatch: %+v", km.Muscles)
	}
	if len(km.Muscles[0].PathPoints) != 2 || km.Muscles[0].PathPoints[1].BodyName != "humerus" {
		t.Fatalf("path point resolution mismatch: %+v", km.Muscles[0].PathPoints)
	}
}

func TestRepositoryLoadReportsProgress(t *testing.T) {
	path := writeArmModel(t, armModelXML)
	rep := NewRepository()
	events := map[LoadProgressEventType]int{}
	rep.SetLoadProgressReporter(func(event LoadProgressEvent) {
		events[event.Type]++
	})
	if _, err := rep.Load(path); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	for _, want := range []LoadProgressEventType{
		LoadProgressEventTypeFileReadComplete,
		LoadProgressEventTypeXmlParsed,
		LoadProgressEventTypeBodyProcessed,
		LoadProgressEventTypeMeshResolved,
		LoadProgressEventTypeCompleted,
	} {
		if events[want] == 0 {
			t.Fatalf("progress event %s not reported", want)
		}
	}
}

func TestRepositoryLoadRejectsBrokenModels(t *testing.T) {
	rep := NewRepository()

	if _, err := rep.Load("arm26.xml"); !merrors.IsKind(err, merrors.KindModelFormat) {
		t.Fatalf("unsupported extension: want model format error, got %v", err)
	}
	if _, err := rep.Load(filepath.Join(t.TempDir(), "missing.osim")); !merrors.IsKind(err, merrors.KindModelFormat) {
		t.Fatalf("missing file: want model format error, got %v", err)
	}

	cases := map[string]struct {
		mutate func(string) string
		kind   merrors.ErrorKind
	}{
		"broken xml": {
			func(x string) string { return x[:len(x)/2] },
			merrors.KindModelFormat,
		},
		"unknown child body": {
			func(x string) string { return strings.Replace(x, "/bodyset/humerus</socket_child_frame>", "/bodyset/radius</socket_child_frame>", 1) },
			merrors.KindModelFormat,
		},
		"clamped without range": {
			func(x string) string { return strings.Replace(x, "<range>-1.5 1.5</range>", "", 1) },
			merrors.KindModelFormat,
		},
		"unsupported joint kind": {
			func(x string) string { return strings.ReplaceAll(x, "PinJoint", "ScrewJoint") },
			merrors.KindModelFormat,
		},
		"missing mesh asset": {
			func(x string) string { return strings.Replace(x, "humerus.obj", "radius.obj", 1) },
			merrors.KindMeshBinding,
		},
	}
	for name, tc := range cases {
		path := writeArmModel(t, tc.mutate(armModelXML))
		if _, err := rep.Load(path); !merrors.IsKind(err, tc.kind) {
			t.Fatalf("%s: want %s error, got %v", name, tc.kind, err)
		}
	}
}
