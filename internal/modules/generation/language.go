package generation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
	"unicode"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/yungbote/force-backend/internal/modules/generation/prompts"
	"github.com/yungbote/force-backend/internal/observability"
	"github.com/yungbote/force-backend/internal/platform/logger"
	"github.com/yungbote/force-backend/internal/platform/openai"
)

const (
	FallbackLanguage = "English"

	defaultLanguageCacheSize = 1024
	defaultDetectTimeout     = 15 * time.Second
	maxLanguageNameLen       = 32
	detectSampleLen          = 2000
)

// Detection is the outcome of a language lookup. Fallback is set whenever
// the answer is the default rather than a detected language.
type Detection struct {
	Language string
	Fallback bool
	Cached   bool
}

// LanguageDetector asks the model which language a text is written in and
// remembers the answer per text.
type LanguageDetector struct {
	llm     Completer
	prompts *prompts.Registry
	cache   *lru.Cache[string, string]
	timeout time.Duration
	log     *logger.Logger
	metrics *observability.Metrics
}

func NewLanguageDetector(llm Completer, reg *prompts.Registry, cacheSize int, log *logger.Logger, metrics *observability.Metrics) *LanguageDetector {
	if cacheSize <= 0 {
		cacheSize = defaultLanguageCacheSize
	}
	if log == nil {
		log = logger.Nop()
	}
	cache, _ := lru.New[string, string](cacheSize)
	return &LanguageDetector{
		llm:     llm,
		prompts: reg,
		cache:   cache,
		timeout: defaultDetectTimeout,
		log:     log.With("component", "LanguageDetector"),
		metrics: metrics,
	}
}

// Detect never fails: every error path yields the fallback language.
func (d *LanguageDetector) Detect(ctx context.Context, text string) Detection {
	text = strings.TrimSpace(text)
	if text == "" {
		return d.fallback("empty text", nil)
	}
	key := cacheKey(text)
	if lang, ok := d.cache.Get(key); ok {
		d.metrics.ObserveLanguageCache(true)
		return Detection{Language: lang, Cached: true}
	}
	d.metrics.ObserveLanguageCache(false)

	p, err := d.prompts.Build(prompts.PromptLanguageDetect, prompts.Input{Text: sample(text)})
	if err != nil {
		return d.fallback("build prompt", err)
	}
	cctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	raw, err := d.llm.Complete(cctx, openai.Request{
		System:      p.System,
		User:        p.User,
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
	})
	if err != nil {
		return d.fallback("model call", err)
	}
	lang, ok := normalizeLanguage(raw)
	if !ok {
		return d.fallback("unusable answer", nil)
	}
	d.cache.Add(key, lang)
	return Detection{Language: lang}
}

func (d *LanguageDetector) fallback(reason string, err error) Detection {
	d.metrics.IncLanguageFallback()
	if err != nil {
		d.log.Warn("language detection fell back", "language_fallback", true, "reason", reason, "error", err)
	} else {
		d.log.Info("language detection fell back", "language_fallback", true, "reason", reason)
	}
	return Detection{Language: FallbackLanguage, Fallback: true}
}

// normalizeLanguage accepts answers like "spanish." or "\"French\"" and
// rejects anything that is not a short run of letters and spaces.
func normalizeLanguage(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, "\"'`.!: \t\n")
	if s == "" || len(s) > maxLanguageNameLen {
		return "", false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && r != ' ' && r != '-' {
			return "", false
		}
	}
	words := strings.Fields(s)
	for i, w := range words {
		rs := []rune(strings.ToLower(w))
		rs[0] = unicode.ToUpper(rs[0])
		words[i] = string(rs)
	}
	return strings.Join(words, " "), true
}

func cacheKey(text string) string {
	h := sha256.Sum256([]byte(strings.ToLower(text)))
	return hex.EncodeToString(h[:])
}

func sample(text string) string {
	if len(text) <= detectSampleLen {
		return text
	}
	cut := detectSampleLen
	for cut > 0 && !utf8Start(text[cut]) {
		cut--
	}
	return text[:cut]
}

func utf8Start(b byte) bool { return b&0xC0 != 0x80 }
