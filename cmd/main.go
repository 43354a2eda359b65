// 指示: miu200521358
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/miu200521358/mu_msmfe/pkg/infra/mlog"
)

// version はリリースバージョンを表す。
const version = "0.1.0"

var verbose bool

// main は追跡CLI全体を実行する。
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd はルートコマンドを構築する。
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mu_msmfe",
		Short: "筋骨格モデルの運動学追跡とメッシュ出力",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			mlog.SetVerbose(verbose)
		},
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "詳細ログを出力する")
	root.AddCommand(newTrackCmd())
	root.AddCommand(newInspectCmd())
	return root
}
