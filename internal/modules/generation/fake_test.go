package generation

import (
	"context"
	"sync"

	"github.com/yungbote/force-backend/internal/platform/openai"
)

type fakeLLM struct {
	mu       sync.Mutex
	answers  []string
	errs     []error
	requests []openai.Request
	before   func(ctx context.Context)
}

func (f *fakeLLM) Complete(ctx context.Context, req openai.Request) (string, error) {
	f.mu.Lock()
	i := len(f.requests)
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.before != nil {
		f.before(ctx)
	}
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.answers) {
		return f.answers[i], nil
	}
	if len(f.answers) > 0 {
		return f.answers[len(f.answers)-1], nil
	}
	return "", nil
}

func (f *fakeLLM) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}
