// 指示: miu200521358
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"

	"github.com/miu200521358/mu_msmfe/pkg/adapter/io_mesh"
	"github.com/miu200521358/mu_msmfe/pkg/adapter/io_model/osim"
	"github.com/miu200521358/mu_msmfe/pkg/adapter/io_motion/sto"
	"github.com/miu200521358/mu_msmfe/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_msmfe/pkg/infra/config"
	"github.com/miu200521358/mu_msmfe/pkg/usecase/minteractor"
	"github.com/miu200521358/mu_msmfe/pkg/usecase/port/moutput"
)

// trackFlags はtrackサブコマンドの引数を保持する。
type trackFlags struct {
	configPath string
	modelPath  string
	motionPath string
	outputPath string
	format     string
	volumetric bool
	strict     bool
	failFast   bool
	workers    int
	filters    []string
	invert     bool
	noProgress bool
}

// newTrackCmd は追跡サブコマンドを構築する。
func newTrackCmd() *cobra.Command {
	flags := &trackFlags{}
	cmd := &cobra.Command{
		Use:   "track",
		Short: "モデルとモーションから追跡結果列を生成して保存する",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrack(cmd.Context(), flags)
		},
	}
	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "YAML設定ファイルパス")
	cmd.Flags().StringVarP(&flags.modelPath, "model", "m", "", messages.LabelModelPath)
	cmd.Flags().StringVarP(&flags.motionPath, "motion", "q", "", messages.LabelMotionPath)
	cmd.Flags().StringVarP(&flags.outputPath, "out", "o", "", messages.LabelOutputPath)
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", messages.LabelFormat)
	cmd.Flags().BoolVar(&flags.volumetric, "volumetric", false, "四面体メッシュも生成する")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "可動範囲外の座標値でフレームを失敗扱いにする")
	cmd.Flags().BoolVar(&flags.failFast, "fail-fast", false, "最初のフレーム失敗で中断する")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "フレーム並列数(0で論理CPU数)")
	cmd.Flags().StringSliceVar(&flags.filters, "filter", nil, "追跡対象とする座標名の部分一致フィルタ")
	cmd.Flags().BoolVar(&flags.invert, "invert-filter", false, "フィルタの意味を反転する")
	cmd.Flags().BoolVar(&flags.noProgress, "no-progress", false, "進捗バーを表示しない")
	return cmd
}

// resolveTrackConfig はフラグと設定ファイルから実行設定を確定する。
// フラグ指定が設定ファイルの値より優先される。
func resolveTrackConfig(flags *trackFlags) (*config.TrackConfig, error) {
	cfg := config.DefaultTrackConfig()
	if flags.configPath != "" {
		loaded, err := config.LoadTrackConfig(flags.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if flags.modelPath != "" {
		cfg.ModelPath = flags.modelPath
	}
	if flags.motionPath != "" {
		cfg.MotionPath = flags.motionPath
	}
	if flags.outputPath != "" {
		cfg.OutputPath = flags.outputPath
	}
	if flags.format != "" {
		cfg.Format = flags.format
	}
	if flags.volumetric {
		cfg.GenerateVolumetric = true
	}
	if flags.strict {
		cfg.StrictJointLimits = true
	}
	if flags.failFast {
		cfg.FailFast = true
	}
	if flags.workers > 0 {
		cfg.Workers = flags.workers
	}
	if len(flags.filters) > 0 {
		cfg.Filters = flags.filters
	}
	if flags.invert {
		cfg.InvertFilter = true
	}

	if strings.TrimSpace(cfg.ModelPath) == "" {
		return nil, errors.New(messages.MessageModelRequired)
	}
	if strings.TrimSpace(cfg.MotionPath) == "" {
		return nil, errors.New(messages.MessageMotionRequired)
	}
	if strings.TrimSpace(cfg.OutputPath) == "" {
		return nil, errors.New(messages.MessageOutputRequired)
	}
	return cfg, nil
}

// runTrack は追跡処理全体を実行する。
func runTrack(ctx context.Context, flags *trackFlags) error {
	cfg, err := resolveTrackConfig(flags)
	if err != nil {
		return err
	}

	uc := minteractor.NewTrackUsecase(minteractor.TrackUsecaseDeps{
		ModelReader:    osim.NewRepository(),
		MotionReader:   sto.NewRepository(),
		SequenceWriter: io_mesh.NewSequenceWriter(),
	})

	var reporter minteractor.ITrackProgressReporter
	progress := &trackProgressBar{}
	if !flags.noProgress {
		reporter = progress
	}

	result, err := uc.Track(ctx, minteractor.TrackRequest{
		ModelPath:  cfg.ModelPath,
		MotionPath: cfg.MotionPath,
		Options: minteractor.TrackOptions{
			GenerateVolumetric: cfg.GenerateVolumetric,
			Quality:            cfg.Quality,
			StrictJointLimits:  cfg.StrictJointLimits,
			FailFast:           cfg.FailFast,
			Workers:            cfg.Workers,
			Filters:            cfg.Filters,
			InvertFilter:       cfg.InvertFilter,
		},
		ProgressReporter: reporter,
	})
	progress.finish()
	if err != nil {
		return fmt.Errorf(messages.MessageTrackFailed+": %w", err)
	}

	exported, err := uc.Export(minteractor.ExportRequest{
		Destination: cfg.OutputPath,
		Sequence:    result.Sequence,
		SaveOptions: moutput.SaveOptions{
			Format:         cfg.Format,
			IncludeVolumes: cfg.GenerateVolumetric,
		},
	})
	if err != nil {
		return fmt.Errorf(messages.MessageExportFailed+": %w", err)
	}

	fmt.Fprintf(os.Stdout, messages.LogTrackSuccess+"\n", cfg.OutputPath)
	fmt.Fprintf(os.Stdout, messages.LogExportSuccess+"\n", exported.FrameCount, exported.Destination)
	fmt.Fprintf(os.Stdout, "  実行ID:     %s\n", result.RunID)
	fmt.Fprintf(os.Stdout, "  フレーム数: %d\n", result.Report.FrameCount)
	fmt.Fprintf(os.Stdout, "  成功:       %d\n", result.Report.SucceededCount)
	fmt.Fprintf(os.Stdout, "  警告:       %d\n", result.Report.WarningCount)
	fmt.Fprintf(os.Stdout, "  所要時間:   %s\n", result.Report.Elapsed)
	if len(result.Report.FailedIndexes) > 0 {
		fmt.Fprintf(os.Stdout, "  失敗フレーム: %v\n", result.Report.FailedIndexes)
	}
	return nil
}

// trackProgressBar はフレーム追跡の進捗をプログレスバーへ反映する。
type trackProgressBar struct {
	mu  sync.Mutex
	bar *pb.ProgressBar
}

// ReportTrackProgress は進捗イベントをバーへ反映する。
func (p *trackProgressBar) ReportTrackProgress(event minteractor.TrackProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch event.Type {
	case minteractor.TrackProgressEventTypeMotionLoaded:
		if event.FrameCount > 0 {
			p.bar = pb.StartNew(event.FrameCount)
		}
	case minteractor.TrackProgressEventTypeFrameTracked:
		if p.bar != nil {
			p.bar.Increment()
		}
	case minteractor.TrackProgressEventTypeCompleted:
		if p.bar != nil {
			p.bar.Finish()
			p.bar = nil
		}
	}
}

// finish は未完了のバーを閉じる。
func (p *trackProgressBar) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
}
