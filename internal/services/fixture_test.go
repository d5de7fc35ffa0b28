package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yungbote/force-backend/internal/data/repos"
	"github.com/yungbote/force-backend/internal/data/repos/testutil"
	types "github.com/yungbote/force-backend/internal/domain"
	"github.com/yungbote/force-backend/internal/modules/generation"
	"github.com/yungbote/force-backend/internal/modules/generation/prompts"
	"github.com/yungbote/force-backend/internal/observability"
	"github.com/yungbote/force-backend/internal/platform/logger"
	"github.com/yungbote/force-backend/internal/platform/openai"
)

// scriptedLLM answers by prompt: the system message says which one it is.
type scriptedLLM struct {
	mu       sync.Mutex
	answer   func(req openai.Request) (string, error)
	requests []openai.Request
}

func (s *scriptedLLM) Complete(_ context.Context, req openai.Request) (string, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	if s.answer == nil {
		return "", &openai.Error{Kind: openai.KindServiceUnavailable, StatusCode: 503}
	}
	return s.answer(req)
}

func (s *scriptedLLM) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func reply(body string) func(openai.Request) (string, error) {
	return func(openai.Request) (string, error) { return body, nil }
}

type fixedLanguage string

func (f fixedLanguage) Detect(context.Context, string) generation.Detection {
	if f == "" {
		return generation.Detection{Language: generation.FallbackLanguage, Fallback: true}
	}
	return generation.Detection{Language: string(f)}
}

type fixture struct {
	db      *gorm.DB
	log     *logger.Logger
	metrics *observability.Metrics
	llm     *scriptedLLM
	engine  *generation.Engine

	users       repos.UserRepo
	items       repos.GrowthItemRepo
	skills      repos.SkillAssessmentRepo
	reflections repos.ReflectionRepo
	sessions    repos.MentalModelSessionRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	reg, err := prompts.Default()
	require.NoError(t, err)
	metrics := observability.New()
	llm := &scriptedLLM{}
	return &fixture{
		db:          db,
		log:         log,
		metrics:     metrics,
		llm:         llm,
		engine:      generation.NewEngine(llm, reg, log, metrics),
		users:       repos.NewUserRepo(db, log),
		items:       repos.NewGrowthItemRepo(db, log),
		skills:      repos.NewSkillAssessmentRepo(db, log),
		reflections: repos.NewReflectionRepo(db, log),
		sessions:    repos.NewMentalModelSessionRepo(db, log),
	}
}

func (f *fixture) principal(t *testing.T, prefix string) types.Principal {
	t.Helper()
	u := testutil.SeedUser(t, context.Background(), f.db, testutil.UniqueEmail(prefix))
	return types.Principal{UserID: u.ID, Email: u.Email, SessionID: "s-" + prefix}
}

const profileAnswer = `{
  "archetype": "Strategic Builder",
  "skillAreas": [
    {"area": "Leadership", "skills": [
      {"id": "Team Coaching", "name": "Team Coaching", "description": "Grow people", "targetLevel": 4},
      {"id": "negotiation", "name": "Negotiation", "description": "Reach agreements", "targetLevel": 5}
    ]},
    {"area": "Delivery", "skills": [
      {"id": "negotiation", "name": "Vendor negotiation", "description": "Contracts", "targetLevel": 3}
    ]}
  ]
}`

const planAnswer = "```json\n" + `{"growthItems": [
  {"type": "book", "title": "Never Split the Difference", "description": "Negotiation tactics", "link": null},
  {"type": "habit", "title": "Weekly 1:1 prep", "description": "Prepare asks", "link": "https://example.com/prep"},
  {"type": "mission", "title": "Lead a vendor renewal", "description": "Own the negotiation", "link": "not a url"}
]}` + "\n```"

func modelsAnswer(n int) string {
	m := `{"name":"Opportunity Cost","explanation":"What you give up","newPerspective":"Compare","keyInsight":"Time is finite","practicalAction":"List alternatives"}`
	parts := make([]string, n)
	for i := range parts {
		parts[i] = m
	}
	return `{"models":[` + strings.Join(parts, ",") + `]}`
}
