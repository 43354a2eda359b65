// 指示: miu200521358
package minteractor

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/miu200521358/mu_msmfe/pkg/domain/merrors"
	"github.com/miu200521358/mu_msmfe/pkg/domain/mesh"
	"github.com/miu200521358/mu_msmfe/pkg/domain/model"
	"github.com/miu200521358/mu_msmfe/pkg/domain/motion"
	"github.com/miu200521358/mu_msmfe/pkg/infra/mlog"
	"github.com/miu200521358/mu_msmfe/pkg/usecase/kinematics"
	"github.com/miu200521358/mu_msmfe/pkg/usecase/tracking"
	"github.com/miu200521358/mu_msmfe/pkg/usecase/volumetric"
	"golang.org/x/sync/errgroup"
)

// Track はモデルとモーションを読み込み、全フレームの追跡結果列を生成する。
// フレームは並列に解決されるが、結果列はモーション系列と同じ順序で整列する。
// フレーム単位で回復可能な失敗は結果列へ失敗として記録し、処理全体は継続する。
func (uc *TrackUsecase) Track(ctx context.Context, request TrackRequest) (*TrackResult, error) {
	start := time.Now()

	m := request.Model
	if m == nil {
		loaded, err := uc.LoadModel(request.ModelReader, request.ModelPath)
		if err != nil {
			return nil, err
		}
		m = loaded
	}
	reportTrackProgress(request.ProgressReporter, TrackProgressEvent{
		Type: TrackProgressEventTypeModelLoaded,
	})

	seq := request.Motion
	if seq == nil {
		loaded, err := uc.LoadMotion(request.MotionReader, request.MotionPath)
		if err != nil {
			return nil, err
		}
		seq = loaded
	}
	reportTrackProgress(request.ProgressReporter, TrackProgressEvent{
		Type:       TrackProgressEventTypeMotionLoaded,
		FrameCount: seq.Len(),
	})

	workers := request.Options.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	frames := make([]*mesh.TrackedFrame, seq.Len())
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, frame := range seq.Frames {
		i, frame := i, frame
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			tracked, err := uc.trackFrame(m, frame, seq.InDegrees, request.Options)
			if err != nil {
				return err
			}
			frames[i] = tracked
			reportTrackProgress(request.ProgressReporter, TrackProgressEvent{
				Type:       TrackProgressEventTypeFrameTracked,
				FrameIndex: frame.Index,
				FrameCount: seq.Len(),
				Frame:      tracked,
			})
			if tracked.Failed() && request.Options.FailFast {
				return fmt.Errorf("フレーム %d の追跡に失敗しました: %s", frame.Index, tracked.Failure)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	trackedSeq := &mesh.TrackedSequence{Frames: frames}
	warningCount := 0
	for _, f := range trackedSeq.Frames {
		warningCount += len(f.Warnings)
	}
	report := TrackReport{
		FrameCount:     trackedSeq.Len(),
		SucceededCount: trackedSeq.SucceededCount(),
		FailedIndexes:  trackedSeq.FailedIndexes(),
		WarningCount:   warningCount,
		Elapsed:        time.Since(start),
	}
	reportTrackProgress(request.ProgressReporter, TrackProgressEvent{
		Type:       TrackProgressEventTypeCompleted,
		FrameCount: trackedSeq.Len(),
	})
	mlog.I("追跡完了: %d/%d フレーム成功 (警告 %d 件, %s)",
		report.SucceededCount, report.FrameCount, report.WarningCount, report.Elapsed)

	return &TrackResult{
		RunID:    uuid.NewString(),
		Model:    m,
		Sequence: trackedSeq,
		Report:   report,
	}, nil
}

// trackFrame は1フレーム分の解決・配置・四面体生成を行う。
// フレーム単位で回復可能な失敗は TrackedFrame.Failure へ記録し、エラーは返さない。
// 内部不変条件の破れのみエラーとして返す。
func (uc *TrackUsecase) trackFrame(m *model.KinematicModel, frame *motion.Frame, inDegrees bool, opts TrackOptions) (*mesh.TrackedFrame, error) {
	tracked := &mesh.TrackedFrame{Index: frame.Index, Time: frame.Time}

	poses, warnings, err := kinematics.Solve(m, frame, inDegrees, kinematics.Options{
		Strict:       opts.StrictJointLimits,
		Filters:      opts.Filters,
		InvertFilter: opts.InvertFilter,
	})
	for _, w := range warnings {
		tracked.Warnings = append(tracked.Warnings, w.String())
	}
	if err != nil {
		if merrors.IsKind(err, merrors.KindSolve) {
			tracked.Warnings = append(tracked.Warnings, model.TrackWarningFrameSolveFailed)
			tracked.Failure = err.Error()
			return tracked, nil
		}
		return nil, err
	}

	snapshot, err := tracking.PlaceFrame(m, poses)
	if err != nil {
		return nil, err
	}

	if opts.GenerateVolumetric {
		for _, body := range m.TopologicalBodies() {
			surfaces, ok := snapshot.Surfaces[body.Name]
			if !ok {
				continue
			}
			for _, surface := range surfaces {
				tm, err := volumetric.Tetrahedralize(surface, opts.Quality)
				if err != nil {
					if merrors.IsKind(err, merrors.KindMeshQuality) {
						tracked.Warnings = append(tracked.Warnings, model.TrackWarningMeshQualityRejected)
						tracked.Failure = err.Error()
						return tracked, nil
					}
					return nil, err
				}
				snapshot.Volumes[body.Name] = append(snapshot.Volumes[body.Name], tm)
			}
		}
	}

	tracked.Snapshot = snapshot
	return tracked, nil
}
