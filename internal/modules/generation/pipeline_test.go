package generation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/force-backend/internal/domain/apperr"
	"github.com/yungbote/force-backend/internal/domain/growth"
	"github.com/yungbote/force-backend/internal/modules/generation/prompts"
	"github.com/yungbote/force-backend/internal/modules/generation/schema"
	"github.com/yungbote/force-backend/internal/observability"
	"github.com/yungbote/force-backend/internal/platform/logger"
	"github.com/yungbote/force-backend/internal/platform/openai"
)

const validProfile = `{"archetype":"Strategic Builder","skillAreas":[{"area":"Delivery","skills":[
	{"id":"planning","name":"Planning","description":"Break work into milestones","targetLevel":4}]}]}`

type recorder struct {
	transitions []Transition
}

func (r *recorder) observe(t Transition) { r.transitions = append(r.transitions, t) }

func (r *recorder) path() []Stage {
	out := []Stage{StageIdle}
	for _, t := range r.transitions {
		out = append(out, t.To)
	}
	return out
}

func newEngine(t *testing.T, llm Completer) (*Engine, *recorder) {
	t.Helper()
	reg, err := prompts.Default()
	require.NoError(t, err)
	rec := &recorder{}
	return NewEngine(llm, reg, logger.Nop(), observability.New(), WithObserver(rec.observe)), rec
}

type persistSpy struct {
	calls int
	ctx   context.Context
	err   error
}

func (p *persistSpy) profileJob(desc string) Job[growth.RoleProfile, string] {
	return Job[growth.RoleProfile, string]{
		Name:   "role_profile",
		Prompt: prompts.PromptRoleProfile,
		Input:  prompts.Input{RoleDescription: desc},
		Schema: schema.RoleProfile(),
		Persist: func(ctx context.Context, v growth.RoleProfile) (string, error) {
			p.calls++
			p.ctx = ctx
			if p.err != nil {
				return "", p.err
			}
			return v.Archetype, nil
		},
	}
}

func stageErr(t *testing.T, err error) *StageError {
	t.Helper()
	var se *StageError
	require.True(t, errors.As(err, &se), "want *StageError, got %T: %v", err, err)
	return se
}

func TestRunHappyPath(t *testing.T) {
	llm := &fakeLLM{answers: []string{validProfile}}
	e, rec := newEngine(t, llm)
	spy := &persistSpy{}

	out, err := Run(context.Background(), e, spy.profileJob("Engineering manager at a startup"))
	require.NoError(t, err)
	assert.Equal(t, "Strategic Builder", out)
	assert.Equal(t, 1, spy.calls)
	assert.Equal(t, []Stage{
		StageIdle, StagePrompting, StageAwaitingLLM, StageParsing,
		StageValidating, StagePersisting, StageDone,
	}, rec.path())

	require.Len(t, llm.requests, 1)
	req := llm.requests[0]
	assert.Contains(t, req.User, "Engineering manager at a startup")
	assert.Equal(t, 0.7, req.Temperature)
	assert.Equal(t, 1500, req.MaxTokens)
}

func TestRunDecodesTypedValue(t *testing.T) {
	llm := &fakeLLM{answers: []string{validProfile}}
	e, _ := newEngine(t, llm)
	var got growth.RoleProfile
	job := Job[growth.RoleProfile, struct{}]{
		Name:   "role_profile",
		Prompt: prompts.PromptRoleProfile,
		Input:  prompts.Input{RoleDescription: "PM"},
		Schema: schema.RoleProfile(),
		Persist: func(_ context.Context, v growth.RoleProfile) (struct{}, error) {
			got = v
			return struct{}{}, nil
		},
	}
	_, err := Run(context.Background(), e, job)
	require.NoError(t, err)
	require.Len(t, got.SkillAreas, 1)
	require.Len(t, got.SkillAreas[0].Skills, 1)
	assert.Equal(t, "planning", got.SkillAreas[0].Skills[0].ID)
	assert.Equal(t, 4, got.SkillAreas[0].Skills[0].TargetLevel)
}

func TestRunFailuresNeverPersist(t *testing.T) {
	cases := []struct {
		name  string
		llm   *fakeLLM
		desc  string
		stage Stage
		code  apperr.Code
	}{
		{
			name:  "missing input",
			llm:   &fakeLLM{answers: []string{validProfile}},
			desc:  "  ",
			stage: StagePrompting,
			code:  apperr.CodeInvalidArgument,
		},
		{
			name:  "upstream auth",
			llm:   &fakeLLM{errs: []error{&openai.Error{Kind: openai.KindUnauthorized, StatusCode: 401}}},
			desc:  "PM",
			stage: StageAwaitingLLM,
			code:  apperr.CodeUpstreamAuth,
		},
		{
			name:  "upstream down",
			llm:   &fakeLLM{errs: []error{&openai.Error{Kind: openai.KindServiceUnavailable, StatusCode: 503}}},
			desc:  "PM",
			stage: StageAwaitingLLM,
			code:  apperr.CodeUpstreamUnavailable,
		},
		{
			name:  "rate limited",
			llm:   &fakeLLM{errs: []error{&openai.Error{Kind: openai.KindRateLimited, StatusCode: 429}}},
			desc:  "PM",
			stage: StageAwaitingLLM,
			code:  apperr.CodeUpstreamUnavailable,
		},
		{
			name:  "malformed envelope",
			llm:   &fakeLLM{errs: []error{&openai.Error{Kind: openai.KindMalformed}}},
			desc:  "PM",
			stage: StageAwaitingLLM,
			code:  apperr.CodeInvalidAIResponse,
		},
		{
			name:  "prose answer",
			llm:   &fakeLLM{answers: []string{"I think you are a builder."}},
			desc:  "PM",
			stage: StageParsing,
			code:  apperr.CodeInvalidAIResponse,
		},
		{
			name:  "schema violation",
			llm:   &fakeLLM{answers: []string{`{"archetype":"A","skillAreas":[]}`}},
			desc:  "PM",
			stage: StageValidating,
			code:  apperr.CodeInvalidAIResponse,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, rec := newEngine(t, tc.llm)
			spy := &persistSpy{}
			_, err := Run(context.Background(), e, spy.profileJob(tc.desc))
			se := stageErr(t, err)
			assert.Equal(t, tc.stage, se.Stage)
			assert.Equal(t, tc.code, apperr.CodeOf(err))
			assert.Zero(t, spy.calls)
			path := rec.path()
			assert.Equal(t, StageFailed, path[len(path)-1])
		})
	}
}

func TestRunMissingInputSkipsModel(t *testing.T) {
	llm := &fakeLLM{answers: []string{validProfile}}
	e, _ := newEngine(t, llm)
	spy := &persistSpy{}
	_, err := Run(context.Background(), e, spy.profileJob(""))
	require.Error(t, err)
	assert.Zero(t, llm.calls())
}

func TestRunSchemaViolationMessage(t *testing.T) {
	model := `{"name":"n","explanation":"e","newPerspective":"p","keyInsight":"k","practicalAction":"a"}`
	four := `{"models":[` + strings.Repeat(model+",", 3) + model + `]}`
	e, _ := newEngine(t, &fakeLLM{answers: []string{four}})
	persisted := false
	_, err := Run(context.Background(), e, Job[growth.MentalModelSet, int]{
		Name:   "mental_models",
		Prompt: prompts.PromptMentalModels,
		Input:  prompts.Input{Prompt: "Should I change teams?"},
		Schema: schema.MentalModels(),
		Persist: func(context.Context, growth.MentalModelSet) (int, error) {
			persisted = true
			return 0, nil
		},
	})
	require.Error(t, err)
	assert.False(t, persisted)
	assert.Equal(t, apperr.CodeInvalidAIResponse, apperr.CodeOf(err))
	assert.Contains(t, apperr.PublicMessage(err), "expected 5, got 4")
}

func TestRunCheckRejects(t *testing.T) {
	e, _ := newEngine(t, &fakeLLM{answers: []string{validProfile}})
	spy := &persistSpy{}
	job := spy.profileJob("PM")
	job.Check = func(v growth.RoleProfile) error {
		return &schema.Violation{Field: "archetype", Reason: "too generic"}
	}
	_, err := Run(context.Background(), e, job)
	assert.Equal(t, StageValidating, stageErr(t, err).Stage)
	assert.Zero(t, spy.calls)
}

func TestRunCancelledBeforePersistWritesNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	llm := &fakeLLM{answers: []string{validProfile}, before: func(context.Context) { cancel() }}
	e, _ := newEngine(t, llm)
	spy := &persistSpy{}

	_, err := Run(ctx, e, spy.profileJob("PM"))
	require.Error(t, err)
	assert.Zero(t, spy.calls)
	assert.Equal(t, apperr.CodeCanceled, apperr.CodeOf(err))
}

func TestRunPersistOutlivesCancellation(t *testing.T) {
	e, _ := newEngine(t, &fakeLLM{answers: []string{validProfile}})
	spy := &persistSpy{}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := Run(ctx, e, spy.profileJob("PM"))
	require.NoError(t, err)
	cancel()
	require.NotNil(t, spy.ctx)
	assert.NoError(t, spy.ctx.Err(), "persist context must not follow caller cancellation")
}

func TestRunPersistFailure(t *testing.T) {
	e, _ := newEngine(t, &fakeLLM{answers: []string{validProfile}})

	spy := &persistSpy{err: errors.New("connection reset")}
	_, err := Run(context.Background(), e, spy.profileJob("PM"))
	se := stageErr(t, err)
	assert.Equal(t, StagePersisting, se.Stage)
	assert.Equal(t, apperr.CodeStorage, apperr.CodeOf(err))
	assert.NotContains(t, apperr.PublicMessage(err), "connection reset")

	spy = &persistSpy{err: apperr.New(apperr.CodeNotFound, "user.get", "user not found")}
	_, err = Run(context.Background(), e, spy.profileJob("PM"))
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestRunUpstreamBodyNotPublic(t *testing.T) {
	e, _ := newEngine(t, &fakeLLM{errs: []error{&openai.Error{
		Kind: openai.KindServiceUnavailable, StatusCode: 503, Body: `{"error":"sk-secret overloaded"}`,
	}}})
	_, err := Run(context.Background(), e, (&persistSpy{}).profileJob("PM"))
	require.Error(t, err)
	assert.NotContains(t, apperr.PublicMessage(err), "sk-secret")
}

func TestCanTransition(t *testing.T) {
	assert.True(t, canTransition(StageIdle, StagePrompting))
	assert.False(t, canTransition(StageIdle, StageFailed))
	assert.False(t, canTransition(StagePrompting, StageParsing))
	assert.True(t, canTransition(StagePersisting, StageFailed))
	assert.False(t, canTransition(StageDone, StageFailed))
	assert.False(t, canTransition(StageFailed, StagePrompting))
	assert.False(t, canTransition(StageParsing, StageAwaitingLLM))
}
