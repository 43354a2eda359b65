// 指示: miu200521358
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "track.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("fixture write failed: %v", err)
	}
	return path
}

func TestDefaultTrackConfig(t *testing.T) {
	cfg := DefaultTrackConfig()
	if cfg.Format != "obj" {
		t.Fatalf("default format mismatch: %s", cfg.Format)
	}
	if cfg.Quality.MinDihedralAngleDeg <= 0 {
		t.Fatalf("default quality not applied: %+v", cfg.Quality)
	}
}

func TestLoadTrackConfig(t *testing.T) {
	path := writeConfigFile(t, `
model_path: models/arm26.osim
motion_path: motions/elbow_flex.mot
output_path: out/arm26
format: medit
generate_volumetric: true
workers: 4
filters:
  - elbow
quality:
  max_element_volume: 0.5
  min_dihedral_angle_deg: 15
`)
	cfg, err := LoadTrackConfig(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ModelPath != "models/arm26.osim" || cfg.Format != "medit" || cfg.Workers != 4 {
		t.Fatalf("config values mismatch: %+v", cfg)
	}
	if !cfg.GenerateVolumetric || len(cfg.Filters) != 1 || cfg.Filters[0] != "elbow" {
		t.Fatalf("config values mismatch: %+v", cfg)
	}
	if cfg.Quality.MaxElementVolume != 0.5 || cfg.Quality.MinDihedralAngleDeg != 15 {
		t.Fatalf("quality values mismatch: %+v", cfg.Quality)
	}
}

func TestLoadTrackConfigKeepsDefaultsForOmittedKeys(t *testing.T) {
	path := writeConfigFile(t, "model_path: models/arm26.osim\n")
	cfg, err := LoadTrackConfig(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Format != "obj" {
		t.Fatalf("omitted format should keep default: %s", cfg.Format)
	}
	if !cfg.Quality.PreserveSurface {
		t.Fatalf("omitted quality should keep default: %+v", cfg.Quality)
	}
}

func TestLoadTrackConfigRejectsInvalidInput(t *testing.T) {
	cases := map[string]string{
		"broken yaml":      "format: [obj\n",
		"unknown format":   "format: vtk\n",
		"negative workers": "workers: -1\n",
		"negative volume":  "quality:\n  max_element_volume: -0.5\n",
		"bad dihedral":     "quality:\n  min_dihedral_angle_deg: 95\n",
	}
	for name, content := range cases {
		path := writeConfigFile(t, content)
		if _, err := LoadTrackConfig(path); err == nil {
			t.Fatalf("%s: want error", name)
		}
	}
	if _, err := LoadTrackConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("missing file: want error")
	}
}
