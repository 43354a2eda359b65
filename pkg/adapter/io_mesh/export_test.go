// 指示: miu200521358
package io_mesh

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/miu200521358/mu_msmfe/pkg/domain/merrors"
	"github.com/miu200521358/mu_msmfe/pkg/domain/mesh"
	"github.com/miu200521358/mu_msmfe/pkg/usecase/port/moutput"
)

func triangleSurface(name string) *mesh.SurfaceMesh {
	return &mesh.SurfaceMesh{
		Name: name,
		Vertices: []r3.Vec{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
		},
		Triangles: [][3]int{{0, 1, 2}},
	}
}

func trackedFrame(index int, bodyName string) *mesh.TrackedFrame {
	return &mesh.TrackedFrame{
		Index: index,
		Time:  float64(index) * 0.01,
		Snapshot: &mesh.Snapshot{
			Index:    index,
			Surfaces: map[string][]*mesh.SurfaceMesh{bodyName: {triangleSurface(bodyName)}},
			Volumes:  map[string][]*mesh.TetMesh{},
		},
	}
}

func TestAtomicWriteFileCommitsOnSuccess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.obj")
	if err := AtomicWriteFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "hello\n")
		return err
	}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if string(data) != "hello\n" {
		t.Fatalf("content mismatch: %q", data)
	}
}

func TestAtomicWriteFileLeavesNothingOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.obj")
	wantErr := errors.New("boom")
	if err := AtomicWriteFile(path, func(io.Writer) error { return wantErr }); !errors.Is(err, wantErr) {
		t.Fatalf("want injected error, got %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("partial files left behind: %v", entries)
	}
}

func TestWriteMeditFormat(t *testing.T) {
	tm := &mesh.TetMesh{
		Vertices: []r3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}},
		Tets:     [][4]int{{0, 1, 2, 3}},
	}
	var buf bytes.Buffer
	if err := WriteMedit(&buf, tm); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"MeshVersionFormatted 2", "Vertices\n4\n", "Tetrahedra\n1\n", "1 2 3 4 1\n", "End\n"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMeshRepositoryLoad(t *testing.T) {
	rep := NewMeshRepository()
	if rep.CanLoad("bone.vtp") {
		t.Fatalf("unsupported extension accepted")
	}
	if !rep.CanLoad("bone.OBJ") || !rep.CanLoad("bone.stl") {
		t.Fatalf("supported extension rejected")
	}

	dir := t.TempDir()
	objPath := filepath.Join(dir, "bone.obj")
	if err := os.WriteFile(objPath, []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0o644); err != nil {
		t.Fatalf("fixture write failed: %v", err)
	}
	m, err := rep.Load(objPath)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if m.Name != "bone" || len(m.Triangles) != 1 {
		t.Fatalf("loaded mesh mismatch: %s %d", m.Name, len(m.Triangles))
	}

	if _, err := rep.Load(filepath.Join(dir, "missing.obj")); !merrors.IsKind(err, merrors.KindMeshBinding) {
		t.Fatalf("want mesh binding error for missing file, got %v", err)
	}
}

func TestSequenceWriterSave(t *testing.T) {
	failed := &mesh.TrackedFrame{Index: 1, Failure: "solve failed"}
	sequence := &mesh.TrackedSequence{Frames: []*mesh.TrackedFrame{trackedFrame(0, "femur"), failed}}

	destination := filepath.Join(t.TempDir(), "run")
	w := NewSequenceWriter()
	if err := w.Save(destination, sequence, moutput.SaveOptions{Format: FormatObj}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(destination, "frame_0000", "femur_00.obj")); err != nil {
		t.Fatalf("frame mesh missing: %v", err)
	}
	// 失敗フレームは欠落ではなく理由ファイルとして残る。
	data, err := os.ReadFile(filepath.Join(destination, "frame_0001", "failed.txt"))
	if err != nil {
		t.Fatalf("failure record missing: %v", err)
	}
	if !strings.Contains(string(data), "solve failed") {
		t.Fatalf("failure reason mismatch: %q", data)
	}
	// 一時出力ディレクトリは残らない。
	entries, err := os.ReadDir(filepath.Dir(destination))
	if err != nil {
		t.Fatalf("read dir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "run" {
		t.Fatalf("staging leftovers: %v", entries)
	}
}

func TestSequenceWriterSaveIncludesVolumes(t *testing.T) {
	frame := trackedFrame(0, "femur")
	frame.Snapshot.Volumes["femur"] = []*mesh.TetMesh{{
		Vertices: []r3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}},
		Tets:     [][4]int{{0, 1, 2, 3}},
	}}
	sequence := &mesh.TrackedSequence{Frames: []*mesh.TrackedFrame{frame}}

	destination := filepath.Join(t.TempDir(), "run")
	if err := NewSequenceWriter().Save(destination, sequence, moutput.SaveOptions{Format: FormatObj, IncludeVolumes: true}); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(destination, "frame_0000", "femur_00.mesh")); err != nil {
		t.Fatalf("volume mesh missing: %v", err)
	}
}

func TestSequenceWriterSaveRejectsInvalidInput(t *testing.T) {
	w := NewSequenceWriter()
	destination := filepath.Join(t.TempDir(), "run")
	full := &mesh.TrackedSequence{Frames: []*mesh.TrackedFrame{trackedFrame(0, "femur")}}

	cases := map[string]struct {
		sequence *mesh.TrackedSequence
		format   string
	}{
		"unsupported format": {full, "vtk"},
		"nil sequence":       {nil, FormatObj},
		"empty sequence":     {&mesh.TrackedSequence{}, FormatObj},
		"missing frame":      {&mesh.TrackedSequence{Frames: []*mesh.TrackedFrame{nil}}, FormatObj},
		"frame out of order": {&mesh.TrackedSequence{Frames: []*mesh.TrackedFrame{trackedFrame(5, "femur")}}, FormatObj},
	}
	for name, tc := range cases {
		err := w.Save(destination, tc.sequence, moutput.SaveOptions{Format: tc.format})
		if !merrors.IsKind(err, merrors.KindExport) {
			t.Fatalf("%s: want export error, got %v", name, err)
		}
		if _, statErr := os.Stat(destination); !os.IsNotExist(statErr) {
			t.Fatalf("%s: destination created despite failure", name)
		}
	}
}
