// 指示: miu200521358
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/miu200521358/mu_msmfe/pkg/adapter/io_mesh"
	"github.com/miu200521358/mu_msmfe/pkg/adapter/io_model/osim"
	"github.com/miu200521358/mu_msmfe/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_msmfe/pkg/usecase/minteractor"
)

// newInspectCmd はモデル概要表示サブコマンドを構築する。
func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <model>",
		Short: "モデルの階層・座標・筋の概要を表示する",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0])
		},
	}
}

// runInspect はモデルを読み込み、概要を標準出力へ表示する。
func runInspect(path string) error {
	uc := minteractor.NewTrackUsecase(minteractor.TrackUsecaseDeps{
		ModelReader:    osim.NewRepository(),
		SequenceWriter: io_mesh.NewSequenceWriter(),
	})
	summary, err := uc.Inspect(nil, path)
	if err != nil {
		return fmt.Errorf(messages.MessageInspectFailed+": %w", err)
	}

	fmt.Fprintf(os.Stdout, "モデル: %s\n", summary.Name)
	fmt.Fprintf(os.Stdout, "  ボディ数: %d\n", summary.BodyCount)
	fmt.Fprintf(os.Stdout, "  座標数:   %d\n", len(summary.Coordinates))
	fmt.Fprintf(os.Stdout, "  筋数:     %d\n", summary.MuscleCount)

	fmt.Fprintln(os.Stdout, "ボディ:")
	for _, body := range summary.Bodies {
		line := fmt.Sprintf("  %s", body.Name)
		if body.ParentName != "" {
			line += fmt.Sprintf(" (親: %s, 関節: %s/%s)", body.ParentName, body.JointName, body.JointKind)
		}
		if body.BindingCount > 0 {
			line += fmt.Sprintf(" [メッシュ %d]", body.BindingCount)
		}
		if len(body.Muscles) > 0 {
			line += fmt.Sprintf(" 筋: %s", strings.Join(body.Muscles, ", "))
		}
		fmt.Fprintln(os.Stdout, line)
	}

	fmt.Fprintln(os.Stdout, "座標:")
	for _, c := range summary.Coordinates {
		unit := "m"
		if c.Rotational {
			unit = "rad"
		}
		line := fmt.Sprintf("  %s (%s, 基準 %g", c.Name, unit, c.DefaultValue)
		if c.Clamped {
			line += fmt.Sprintf(", 範囲 [%g, %g]", c.RangeMin, c.RangeMax)
		}
		line += ")"
		fmt.Fprintln(os.Stdout, line)
	}
	return nil
}
