// Package enrichment turns allocated assignments into presentation-ready
// study blocks using a generative-text model, with a deterministic fallback
// for every failure.
package enrichment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/llm"
	"github.com/tidwall/gjson"
)

// Cache stores raw model responses keyed by a hash of the request payload.
// Implementations return a non-nil error on a miss.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Result is the outcome of one enrichment run. Blocks are in assignment order.
type Result struct {
	Blocks        []domain.StudyBlock
	FallbackCount int
	Warnings      []domain.Warning
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithCache enables response caching.
func WithCache(c Cache) Option {
	return func(g *Gateway) { g.cache = c }
}

// WithLogger sets the logger used to report fallbacks.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}

// Gateway requests titles and descriptions for a batch of assignments in a
// single call. A nil client disables generation and every block falls back.
type Gateway struct {
	client llm.LLMClient
	cache  Cache
	logger *slog.Logger
}

// NewGateway creates a Gateway backed by client.
func NewGateway(client llm.LLMClient, opts ...Option) *Gateway {
	g := &Gateway{
		client: client,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type assignmentPayload struct {
	ID                    int      `json:"id"`
	ObligationTitle       string   `json:"obligation_title"`
	ObligationDescription string   `json:"obligation_description,omitempty"`
	ObligationWeight      *float64 `json:"obligation_weight,omitempty"`
	DueDate               string   `json:"due_date"`
	Date                  string   `json:"date"`
	Start                 string   `json:"start"`
	End                   string   `json:"end"`
}

type generated struct {
	title       string
	description string
}

// Enrich returns one study block per assignment. It never fails: transport
// errors, timeouts, malformed output and missing ids all degrade to Fallback
// and are reported through Result.FallbackCount and a warning.
func (g *Gateway) Enrich(ctx context.Context, assignments []domain.Assignment) Result {
	if len(assignments) == 0 {
		return Result{}
	}

	byID, reason := g.generate(ctx, assignments)

	res := Result{Blocks: make([]domain.StudyBlock, 0, len(assignments))}
	for _, a := range assignments {
		gen, ok := byID[a.ID]
		if !ok {
			res.Blocks = append(res.Blocks, Fallback(a))
			res.FallbackCount++
			continue
		}
		b := baseBlock(a)
		b.Title = gen.title
		b.Description = domain.CoalesceStr(gen.description, fallbackDescription(a))
		b.Generated = true
		res.Blocks = append(res.Blocks, b)
	}

	if res.FallbackCount > 0 {
		if reason == "" {
			reason = "response missing ids"
		}
		g.logger.Warn("enrichment_fallback",
			"assignments", len(assignments),
			"fallbacks", res.FallbackCount,
			"reason", reason,
		)
		res.Warnings = append(res.Warnings, domain.Warning{
			Code: domain.WarnEnrichmentFallback,
			Message: fmt.Sprintf("%d of %d study blocks use the template text (%s)",
				res.FallbackCount, len(assignments), reason),
		})
	}
	return res
}

// generate performs the single model call. It returns the correlated blocks
// and, when nothing usable came back, a short reason.
func (g *Gateway) generate(ctx context.Context, assignments []domain.Assignment) (map[int]generated, string) {
	if g.client == nil {
		return nil, "generation disabled"
	}

	payload, err := buildPayload(assignments)
	if err != nil {
		return nil, "encoding request"
	}
	key := cacheKey(payload)

	if g.cache != nil {
		if cached, err := g.cache.Get(ctx, key); err == nil {
			if byID, ok := correlate(cached, assignments); ok {
				return byID, ""
			}
		}
	}

	resp, err := g.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskEnrich,
		SystemPrompt: enrichSystemPrompt,
		UserPrompt:   "Study blocks:\n\n" + payload,
		JSON:         true,
	})
	if err != nil {
		return nil, err.Error()
	}

	text, err := llm.ExtractJSONText(resp.Text)
	if err != nil {
		return nil, "malformed response"
	}
	byID, ok := correlate(text, assignments)
	if !ok {
		return nil, "malformed response"
	}

	if g.cache != nil && len(byID) == len(assignments) {
		if err := g.cache.Set(ctx, key, text); err != nil {
			g.logger.Debug("enrichment_cache_set_failed", "error", err)
		}
	}
	return byID, ""
}

func buildPayload(assignments []domain.Assignment) (string, error) {
	items := make([]assignmentPayload, 0, len(assignments))
	for _, a := range assignments {
		items = append(items, assignmentPayload{
			ID:                    a.ID,
			ObligationTitle:       a.Obligation.Title,
			ObligationDescription: a.Obligation.Description,
			ObligationWeight:      a.Obligation.Weight,
			DueDate:               a.Obligation.DueDate,
			Date:                  a.Gap.Date,
			Start:                 a.Gap.Start.String(),
			End:                   a.Gap.End.String(),
		})
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func cacheKey(payload string) string {
	sum := sha256.Sum256([]byte(enrichSystemPrompt + "\n" + payload))
	return hex.EncodeToString(sum[:])
}

// correlate reads blocks[] entry by entry so one malformed element only
// affects its own assignment. Unknown and duplicate ids are ignored; the
// first occurrence of an id wins. ok is false when the document itself is
// unusable.
func correlate(text string, assignments []domain.Assignment) (map[int]generated, bool) {
	if !gjson.Valid(text) {
		return nil, false
	}
	blocks := gjson.Get(text, "blocks")
	if !blocks.IsArray() {
		return nil, false
	}

	known := make(map[int]bool, len(assignments))
	for _, a := range assignments {
		known[a.ID] = true
	}

	byID := make(map[int]generated, len(assignments))
	blocks.ForEach(func(_, item gjson.Result) bool {
		idRes := item.Get("id")
		if idRes.Type != gjson.Number || idRes.Num != float64(int(idRes.Num)) {
			return true
		}
		id := int(idRes.Num)
		if !known[id] {
			return true
		}
		if _, dup := byID[id]; dup {
			return true
		}
		title := strings.TrimSpace(item.Get("title").String())
		if title == "" || item.Get("title").Type != gjson.String {
			return true
		}
		desc := ""
		if d := item.Get("description"); d.Type == gjson.String {
			desc = strings.TrimSpace(d.String())
		}
		byID[id] = generated{title: title, description: desc}
		return true
	})
	return byID, true
}
