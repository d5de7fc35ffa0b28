// Package generation runs the prompt -> model -> parse -> validate -> persist
// chain shared by every AI-backed feature.
package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/force-backend/internal/modules/generation/prompts"
	"github.com/yungbote/force-backend/internal/modules/generation/schema"
	"github.com/yungbote/force-backend/internal/observability"
	"github.com/yungbote/force-backend/internal/platform/logger"
	"github.com/yungbote/force-backend/internal/platform/openai"
)

// Completer is the slice of the model client the pipeline needs.
type Completer interface {
	Complete(ctx context.Context, req openai.Request) (string, error)
}

// Engine holds what every run shares.
type Engine struct {
	llm      Completer
	prompts  *prompts.Registry
	log      *logger.Logger
	metrics  *observability.Metrics
	tracer   trace.Tracer
	observer func(Transition)
}

type Option func(*Engine)

// WithObserver registers a callback invoked synchronously on every stage change.
func WithObserver(fn func(Transition)) Option {
	return func(e *Engine) { e.observer = fn }
}

func NewEngine(llm Completer, reg *prompts.Registry, log *logger.Logger, metrics *observability.Metrics, opts ...Option) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	e := &Engine{
		llm:     llm,
		prompts: reg,
		log:     log.With("component", "GenerationEngine"),
		metrics: metrics,
		tracer:  otel.Tracer("force/generation"),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Job describes one run. T is the decoded model answer, R what Persist returns.
type Job[T any, R any] struct {
	// Name labels logs, metrics and spans.
	Name   string
	Prompt prompts.PromptName
	Input  prompts.Input
	Schema schema.Schema
	// Check runs after decoding for rules the schema cannot express.
	Check func(T) error
	// Persist receives a context that outlives caller cancellation so a
	// started write is never torn.
	Persist func(ctx context.Context, value T) (R, error)
}

type run struct {
	e        *Engine
	pipeline string
	stage    Stage
	span     trace.Span
}

func (r *run) enter(to Stage, err error) {
	from := r.stage
	if !canTransition(from, to) {
		panic(fmt.Sprintf("generation: illegal transition %s -> %s", from, to))
	}
	r.stage = to
	r.span.AddEvent(string(to))
	outcome := "enter"
	if to == StageFailed {
		outcome = string(from)
	}
	r.e.metrics.ObservePipelineStage(r.pipeline, string(to), outcome)
	r.e.log.Debug("pipeline stage", "pipeline", r.pipeline, "from", from, "to", to)
	if r.e.observer != nil {
		r.e.observer(Transition{Pipeline: r.pipeline, From: from, To: to, Err: err})
	}
}

// Run drives job through every stage. Failures come back as *StageError
// wrapping an apperr; nothing is persisted unless every earlier stage passed.
func Run[T any, R any](ctx context.Context, e *Engine, job Job[T, R]) (R, error) {
	var zero R
	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "generation."+job.Name,
		trace.WithAttributes(attribute.String("prompt", string(job.Prompt))))
	defer span.End()

	r := &run{e: e, pipeline: job.Name, stage: StageIdle, span: span}
	fail := func(err error) (R, error) {
		stage := r.stage
		classified := classify(ctx, job.Name, stage, err)
		r.enter(StageFailed, classified)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(stage))
		e.metrics.ObservePipeline(job.Name, "failed", time.Since(start))
		e.log.Warn("pipeline failed", "pipeline", job.Name, "stage", stage, "error", err)
		return zero, &StageError{Pipeline: job.Name, Stage: stage, Err: classified}
	}

	r.enter(StagePrompting, nil)
	p, err := e.prompts.Build(job.Prompt, job.Input)
	if err != nil {
		return fail(err)
	}
	span.SetAttributes(attribute.Int("prompt.version", p.Version), attribute.String("prompt.fingerprint", p.Fingerprint()))

	r.enter(StageAwaitingLLM, nil)
	raw, err := e.llm.Complete(ctx, openai.Request{
		System:      p.System,
		User:        p.User,
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
	})
	if err != nil {
		return fail(err)
	}

	r.enter(StageParsing, nil)
	tree, err := Parse(raw)
	if err != nil {
		var ije *InvalidJSONError
		if errors.As(err, &ije) {
			e.log.Warn("model output is not json", "pipeline", job.Name, "snippet", ije.Snippet)
		}
		return fail(err)
	}

	r.enter(StageValidating, nil)
	if err := schema.Validate(tree, job.Schema); err != nil {
		return fail(err)
	}
	value, err := decode[T](tree)
	if err != nil {
		return fail(err)
	}
	if job.Check != nil {
		if err := job.Check(value); err != nil {
			return fail(err)
		}
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	r.enter(StagePersisting, nil)
	out, err := job.Persist(context.WithoutCancel(ctx), value)
	if err != nil {
		return fail(err)
	}

	r.enter(StageDone, nil)
	e.metrics.ObservePipeline(job.Name, "ok", time.Since(start))
	return out, nil
}

// decode maps a validated tree onto T through its JSON tags.
func decode[T any](tree any) (T, error) {
	var out T
	b, err := json.Marshal(tree)
	if err != nil {
		return out, fmt.Errorf("re-encode validated tree: %w", err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, fmt.Errorf("decode validated tree: %w", err)
	}
	return out, nil
}
