package indexing

import (
	"context"
	"fmt"
)

// Stage names the step of the per-record pipeline.
type Stage string

const (
	// StageTransform covers envelope and attribute decoding plus document mapping.
	StageTransform Stage = "transform"
	// StageWrite covers the store upsert.
	StageWrite Stage = "write"
)

// StageError reports the stage a record failed in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// StageHook is told when a record enters a stage.
type StageHook func(Stage)

type hookKey struct{}

// ContextWithStageHook attaches a hook that Handle calls on every stage transition.
func ContextWithStageHook(ctx context.Context, hook StageHook) context.Context {
	return context.WithValue(ctx, hookKey{}, hook)
}

func enterStage(ctx context.Context, stage Stage) {
	if hook, ok := ctx.Value(hookKey{}).(StageHook); ok && hook != nil {
		hook(stage)
	}
}
