// 指示: miu200521358
package merrors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestPipelineErrorMessageContainsKind(t *testing.T) {
	err := NewModelFormatError("階層が不正です", nil)
	if !strings.Contains(err.Error(), string(KindModelFormat)) {
		t.Fatalf("error message should contain kind: %s", err.Error())
	}
}

func TestIsKindMatchesWrappedError(t *testing.T) {
	base := NewSolveError("解決に失敗しました", nil)
	wrapped := fmt.Errorf("フレーム処理: %w", base)
	if !IsKind(wrapped, KindSolve) {
		t.Fatalf("wrapped solve error should match kind")
	}
	if IsKind(wrapped, KindTrack) {
		t.Fatalf("solve error should not match track kind")
	}
}

func TestUnwrapReturnsCause(t *testing.T) {
	cause := errors.New("下層エラー")
	err := NewExportError("保存に失敗しました", cause)
	if !errors.Is(err, cause) {
		t.Fatalf("cause should be reachable via errors.Is")
	}
}

func TestWithPathDoesNotMutateOriginal(t *testing.T) {
	base := NewMotionFormatError("形式が不正です", nil)
	withPath := base.WithPath("/tmp/motion.sto")
	if base.Path != "" {
		t.Fatalf("original path should stay empty: %s", base.Path)
	}
	if withPath.Path != "/tmp/motion.sto" {
		t.Fatalf("path not applied: %s", withPath.Path)
	}
	if !strings.Contains(withPath.Error(), "/tmp/motion.sto") {
		t.Fatalf("path should appear in message: %s", withPath.Error())
	}
}

func TestKindOfReturnsKind(t *testing.T) {
	err := NewMeshQualityError("品質不正", nil)
	if kind := KindOf(err); kind != KindMeshQuality {
		t.Fatalf("kind mismatch: %v", kind)
	}
	if kind := KindOf(errors.New("plain")); kind != "" {
		t.Fatalf("plain error should not have kind: %v", kind)
	}
}
