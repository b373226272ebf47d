package enrichment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/llm"
)

// ErrGenerationDisabled is returned when candidate extraction is requested
// without a configured model.
var ErrGenerationDisabled = errors.New("text generation is disabled")

type extractedCandidate struct {
	Title       string   `json:"title"`
	Weight      *float64 `json:"weight"`
	Description string   `json:"description"`
}

type extractPayload struct {
	Candidates []extractedCandidate `json:"candidates"`
}

// Extractor asks the model for match candidates found in syllabus text.
type Extractor struct {
	client llm.LLMClient
}

func NewExtractor(client llm.LLMClient) *Extractor {
	return &Extractor{client: client}
}

// Extract returns the graded items mentioned in syllabus, tagged with
// subjectID. Blank titles are dropped and out-of-range weights are cleared.
func (e *Extractor) Extract(ctx context.Context, subjectID, syllabus string) ([]domain.MatchCandidate, error) {
	if e.client == nil {
		return nil, ErrGenerationDisabled
	}
	if strings.TrimSpace(syllabus) == "" {
		return nil, nil
	}

	resp, err := e.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskExtract,
		SystemPrompt: extractSystemPrompt,
		UserPrompt:   "Syllabus:\n\n" + syllabus,
		JSON:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("extracting candidates: %w", err)
	}

	payload, err := llm.ExtractJSON[extractPayload](resp.Text, nil)
	if err != nil {
		return nil, fmt.Errorf("extracting candidates: %w", err)
	}

	out := make([]domain.MatchCandidate, 0, len(payload.Candidates))
	for _, c := range payload.Candidates {
		title := strings.TrimSpace(c.Title)
		if title == "" {
			continue
		}
		w := c.Weight
		if w != nil && (*w < 0 || *w > 100) {
			w = nil
		}
		out = append(out, domain.MatchCandidate{
			SubjectID:   subjectID,
			Title:       title,
			Weight:      w,
			Description: strings.TrimSpace(c.Description),
		})
	}
	return out, nil
}
