// 指示: miu200521358
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/miu200521358/mu_msmfe/pkg/adapter/io_mesh"
	"github.com/miu200521358/mu_msmfe/pkg/adapter/io_model/osim"
	"github.com/miu200521358/mu_msmfe/pkg/adapter/io_motion/sto"
	"github.com/miu200521358/mu_msmfe/pkg/usecase/minteractor"
	"github.com/miu200521358/mu_msmfe/pkg/usecase/port/moutput"
	"github.com/miu200521358/mu_msmfe/pkg/usecase/volumetric"
)

// trackTarget は1ケース分の入力パス対を表す。
type trackTarget struct {
	ModelPath  string
	MotionPath string
}

var targetPairs = []trackTarget{
	{
		ModelPath:  "C:/Codex/msmfe/test_resources/osim/arm26.osim",
		MotionPath: "C:/Codex/msmfe/test_resources/sto/arm26_elbow_flex.sto",
	},
	// {
	// 	ModelPath:  "C:/Codex/msmfe/test_resources/osim/gait2354.osim",
	// 	MotionPath: "C:/Codex/msmfe/test_resources/sto/gait2354_walk1.mot",
	// },
}

// batchConfig は一括追跡の実行設定を表す。
type batchConfig struct {
	OutputRoot string
	DryRun     bool
	FailFast   bool
	Volumetric bool
}

// trackEntry は1ケース分の追跡入力情報を表す。
type trackEntry struct {
	Index      int
	Target     trackTarget
	CaseName   string
	CaseDir    string
	OutputPath string
}

// trackCaseResult は1ケース分の追跡結果を表す。
type trackCaseResult struct {
	Entry        trackEntry
	Status       string
	Duration     time.Duration
	Err          error
	ProgressInfo string
	FrameCount   int
	Succeeded    int
}

// trackProgressCollector は Track の進捗イベントを収集する。
// 進捗通知はフレーム並列のワーカから届くため、内部状態を排他する。
type trackProgressCollector struct {
	mu          sync.Mutex
	eventCounts map[minteractor.TrackProgressEventType]int
	frameMax    int
}

// main は検証向けの一括追跡を実行する。
func main() {
	os.Exit(run())
}

// run は実行設定を解決して一括追跡を実行し、終了コードを返す。
func run() int {
	config, err := parseBatchConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "設定解析に失敗しました: %v\n", err)
		return 2
	}
	entries := buildTrackEntries(config.OutputRoot, targetPairs)
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "追跡対象がありません")
		return 2
	}

	results := executeBatchTracking(config, entries)
	printBatchSummary(results)

	for _, result := range results {
		if result.Status == "failed" {
			return 1
		}
	}
	return 0
}

// parseBatchConfig はコマンドライン引数から実行設定を構築する。
func parseBatchConfig() (batchConfig, error) {
	defaultOutputRoot, err := resolveDefaultOutputRoot()
	if err != nil {
		return batchConfig{}, err
	}
	outputRoot := flag.String("output-root", defaultOutputRoot, "追跡結果の出力ルートディレクトリ")
	dryRun := flag.Bool("dry-run", false, "実追跡せず、入力解決と出力先計画のみ表示する")
	failFast := flag.Bool("fail-fast", false, "失敗時に即時終了する")
	volumetric := flag.Bool("volumetric", false, "四面体メッシュも生成する")
	flag.Parse()

	trimmedOutputRoot := strings.TrimSpace(*outputRoot)
	if trimmedOutputRoot == "" {
		return batchConfig{}, errors.New("output-root が空です")
	}
	return batchConfig{
		OutputRoot: filepath.Clean(trimmedOutputRoot),
		DryRun:     *dryRun,
		FailFast:   *failFast,
		Volumetric: *volumetric,
	}, nil
}

// resolveDefaultOutputRoot はスクリプト配置ディレクトリ基準の既定出力先を返す。
func resolveDefaultOutputRoot() (string, error) {
	_, currentFilePath, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("実行ファイル位置を取得できません")
	}
	currentDir := filepath.Dir(currentFilePath)
	return filepath.Join(currentDir, "output"), nil
}

// buildTrackEntries は入力パス対一覧から追跡対象エントリを生成する。
func buildTrackEntries(outputRoot string, targets []trackTarget) []trackEntry {
	entries := make([]trackEntry, 0, len(targets))
	for i, target := range targets {
		resolved := trackTarget{
			ModelPath:  normalizeInputPath(target.ModelPath),
			MotionPath: normalizeInputPath(target.MotionPath),
		}
		caseName := sanitizePathComponent(resolveCaseName(target.ModelPath))
		caseDirName := fmt.Sprintf("%03d_%s", i+1, caseName)
		caseDir := filepath.Join(outputRoot, caseDirName)
		entries = append(entries, trackEntry{
			Index:      i + 1,
			Target:     resolved,
			CaseName:   caseName,
			CaseDir:    caseDir,
			OutputPath: filepath.Join(caseDir, "frames"),
		})
	}
	return entries
}

// executeBatchTracking は全ケースの追跡処理を順次実行する。
func executeBatchTracking(config batchConfig, entries []trackEntry) []trackCaseResult {
	results := make([]trackCaseResult, 0, len(entries))
	usecase := minteractor.NewTrackUsecase(minteractor.TrackUsecaseDeps{
		ModelReader:    osim.NewRepository(),
		MotionReader:   sto.NewRepository(),
		SequenceWriter: io_mesh.NewSequenceWriter(),
	})

	total := len(entries)
	for _, entry := range entries {
		fmt.Printf("[%d/%d] 追跡開始: case=%s\n", entry.Index, total, entry.CaseName)
		result := trackCaseEntry(usecase, config, entry)
		results = append(results, result)
		switch result.Status {
		case "succeeded":
			fmt.Printf("[%d/%d] 追跡成功: case=%s frames=%d/%d output=%s elapsed=%s\n",
				entry.Index, total, entry.CaseName, result.Succeeded, result.FrameCount,
				entry.OutputPath, result.Duration.Round(time.Millisecond))
			if strings.TrimSpace(result.ProgressInfo) != "" {
				fmt.Printf("[%d/%d] Track進捗: %s\n", entry.Index, total, result.ProgressInfo)
			}
		case "dry_run":
			fmt.Printf("[%d/%d] DRY-RUN: case=%s model=%s motion=%s output=%s\n",
				entry.Index, total, entry.CaseName, entry.Target.ModelPath, entry.Target.MotionPath, entry.OutputPath)
		case "skipped_missing":
			fmt.Printf("[%d/%d] 入力不足でスキップ: case=%s reason=%v\n", entry.Index, total, entry.CaseName, result.Err)
		default:
			fmt.Printf("[%d/%d] 追跡失敗: case=%s reason=%v\n", entry.Index, total, entry.CaseName, result.Err)
			if config.FailFast {
				return results
			}
		}
	}
	return results
}

// trackCaseEntry は1ケース分の追跡と保存を実行する。
func trackCaseEntry(usecase *minteractor.TrackUsecase, config batchConfig, entry trackEntry) trackCaseResult {
	result := trackCaseResult{
		Entry:  entry,
		Status: "failed",
	}
	if _, err := os.Stat(entry.Target.ModelPath); err != nil {
		result.Status = "skipped_missing"
		result.Err = err
		return result
	}
	if _, err := os.Stat(entry.Target.MotionPath); err != nil {
		result.Status = "skipped_missing"
		result.Err = err
		return result
	}
	if config.DryRun {
		result.Status = "dry_run"
		return result
	}
	if err := os.MkdirAll(entry.CaseDir, 0o755); err != nil {
		result.Err = fmt.Errorf("出力ディレクトリ作成に失敗しました: %w", err)
		return result
	}

	startedAt := time.Now()
	progressCollector := newTrackProgressCollector()
	tracked, err := usecase.Track(context.Background(), minteractor.TrackRequest{
		ModelPath:  entry.Target.ModelPath,
		MotionPath: entry.Target.MotionPath,
		Options: minteractor.TrackOptions{
			GenerateVolumetric: config.Volumetric,
			Quality:            volumetric.DefaultQualityConfig(),
			FailFast:           config.FailFast,
		},
		ProgressReporter: progressCollector,
	})
	if err != nil {
		result.Err = fmt.Errorf("Trackに失敗しました: %w", err)
		return result
	}
	if tracked == nil || tracked.Sequence == nil {
		result.Err = errors.New("Track結果が空です")
		return result
	}
	if _, err := usecase.Export(minteractor.ExportRequest{
		Destination: entry.OutputPath,
		Sequence:    tracked.Sequence,
		SaveOptions: moutput.SaveOptions{
			Format:         io_mesh.FormatObj,
			IncludeVolumes: config.Volumetric,
		},
	}); err != nil {
		result.Err = fmt.Errorf("Exportに失敗しました: %w", err)
		return result
	}

	result.Status = "succeeded"
	result.Duration = time.Since(startedAt)
	result.ProgressInfo = progressCollector.Summary()
	result.FrameCount = tracked.Report.FrameCount
	result.Succeeded = tracked.Report.SucceededCount
	return result
}

// printBatchSummary は追跡結果の集計を標準出力へ表示する。
func printBatchSummary(results []trackCaseResult) {
	succeeded := 0
	failed := 0
	skipped := 0
	dryRun := 0
	for _, result := range results {
		switch result.Status {
		case "succeeded":
			succeeded++
		case "dry_run":
			dryRun++
		case "skipped_missing":
			skipped++
		default:
			failed++
		}
	}
	fmt.Printf(
		"バッチ追跡サマリ: total=%d succeeded=%d failed=%d skipped_missing=%d dry_run=%d\n",
		len(results),
		succeeded,
		failed,
		skipped,
		dryRun,
	)
}

// resolveCaseName はモデルパスから拡張子を除いたケース名を返す。
func resolveCaseName(path string) string {
	base := strings.TrimSpace(filepath.Base(path))
	ext := filepath.Ext(base)
	name := strings.TrimSpace(strings.TrimSuffix(base, ext))
	if name == "" {
		return "case"
	}
	return name
}

// normalizeInputPath は入力パスを実行環境向けに正規化する。
func normalizeInputPath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return ""
	}
	return filepath.Clean(convertWindowsPathToWsl(trimmed))
}

// convertWindowsPathToWsl は Linux 実行時に Windows パスを WSL パスへ変換する。
func convertWindowsPathToWsl(path string) string {
	trimmed := strings.TrimSpace(path)
	if runtime.GOOS != "linux" {
		return trimmed
	}
	if len(trimmed) < 2 || trimmed[1] != ':' {
		return trimmed
	}
	drive := strings.ToLower(trimmed[:1])
	rest := strings.ReplaceAll(trimmed[2:], "\\", "/")
	if rest == "" {
		return filepath.ToSlash(filepath.Join("/mnt", drive))
	}
	if !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	return filepath.ToSlash(filepath.Join("/mnt", drive) + rest)
}

// sanitizePathComponent は出力ディレクトリ/ファイル名に使えない文字を置換する。
func sanitizePathComponent(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "case"
	}
	replaced := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		default:
			if r < 0x20 {
				return '_'
			}
			return r
		}
	}, trimmed)
	replaced = strings.Trim(replaced, " .")
	if replaced == "" {
		return "case"
	}
	return replaced
}

// newTrackProgressCollector は Track 進捗収集器を生成する。
func newTrackProgressCollector() *trackProgressCollector {
	return &trackProgressCollector{
		eventCounts: map[minteractor.TrackProgressEventType]int{},
	}
}

// ReportTrackProgress は Track の進捗イベントを収集する。
func (collector *trackProgressCollector) ReportTrackProgress(event minteractor.TrackProgressEvent) {
	if collector == nil {
		return
	}
	collector.mu.Lock()
	defer collector.mu.Unlock()
	if collector.eventCounts == nil {
		collector.eventCounts = map[minteractor.TrackProgressEventType]int{}
	}
	collector.eventCounts[event.Type]++
	if event.FrameCount > collector.frameMax {
		collector.frameMax = event.FrameCount
	}
}

// Summary は収集した Track 進捗の要約文字列を返す。
func (collector *trackProgressCollector) Summary() string {
	if collector == nil {
		return ""
	}
	collector.mu.Lock()
	defer collector.mu.Unlock()
	if len(collector.eventCounts) == 0 {
		return ""
	}
	types := make([]string, 0, len(collector.eventCounts))
	for stageType := range collector.eventCounts {
		types = append(types, string(stageType))
	}
	sort.Strings(types)
	return fmt.Sprintf(
		"events=%d frames=%d stages=%s",
		len(collector.eventCounts),
		collector.frameMax,
		strings.Join(types, ","),
	)
}
