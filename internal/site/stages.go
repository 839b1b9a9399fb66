package site

import (
	"context"
	"fmt"
)

// Stage is a discrete unit of work in the site build.
type Stage func(ctx context.Context, bs *BuildState) error

// StageName identifies a build stage.
type StageName string

const (
	StageClean         StageName = "clean"
	StageLoadTemplates StageName = "load_templates"
	StageLoadContent   StageName = "load_content"
	StageRenderPosts   StageName = "render_posts"
	StageRenderListing StageName = "render_listing"
	StageRenderPages   StageName = "render_pages"
	StageRenderHome    StageName = "render_home"
	StageVerifyLinks   StageName = "verify_links"
)

// StageDef pairs a stage name with its function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Build must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying the failing stage and the cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}

func newWarnStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorWarning, Stage: stage, Err: err}
}

func newCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// Pipeline returns the stage sequence. verify_links is omitted when link
// verification is disabled.
func Pipeline(verifyLinks bool) []StageDef {
	stages := []StageDef{
		{StageClean, stageClean},
		{StageLoadTemplates, stageLoadTemplates},
		{StageLoadContent, stageLoadContent},
		{StageRenderPosts, stageRenderPosts},
		{StageRenderListing, stageRenderListing},
		{StageRenderPages, stageRenderPages},
		{StageRenderHome, stageRenderHome},
	}
	if verifyLinks {
		stages = append(stages, StageDef{StageVerifyLinks, stageVerifyLinks})
	}
	return stages
}
