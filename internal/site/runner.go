package site

import (
	"context"
	"errors"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// runStages executes stages in order, recording timings and stopping on the
// first fatal or canceled stage.
func runStages(ctx context.Context, bs *BuildState, stages []StageDef) error {
	rec := bs.recorder()
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			se := newCanceledStageError(st.Name, err)
			bs.Report.recordError(se)
			rec.IncStageResult(string(st.Name), metrics.ResultCanceled)
			return se
		}

		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)
		bs.Report.StageDurations[st.Name] = dur
		rec.ObserveStageDuration(string(st.Name), dur)

		if err == nil {
			rec.IncStageResult(string(st.Name), metrics.ResultSuccess)
			bs.logger().Debug("Stage complete", logfields.Stage(string(st.Name)), logfields.DurationMS(float64(dur.Microseconds())/1000))
			continue
		}

		var se *StageError
		if !errors.As(err, &se) {
			se = newFatalStageError(st.Name, err)
		}
		if se.Kind == StageErrorFatal && ctx.Err() != nil {
			se = newCanceledStageError(st.Name, err)
		}
		bs.Report.recordError(se)

		switch se.Kind {
		case StageErrorWarning:
			rec.IncStageResult(string(st.Name), metrics.ResultWarning)
			bs.logger().Warn("Stage completed with warnings", logfields.Stage(string(st.Name)), logfields.Error(se.Err))
			continue
		case StageErrorCanceled:
			rec.IncStageResult(string(st.Name), metrics.ResultCanceled)
		default:
			rec.IncStageResult(string(st.Name), metrics.ResultFatal)
		}
		return se
	}
	return nil
}
