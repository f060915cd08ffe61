// Package translate renders analysis reports in the user's display
// language. Translation is an optional enhancement: every failure degrades
// to the original text so the caller always has something to show.
package translate

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/plantlens/plant-analyzer/pkg/types"
)

// Backend produces a text completion for a prompt from a generative model.
type Backend interface {
	Complete(ctx context.Context, model, prompt string) (string, error)
}

// Service translates report text through a Backend, degrading to the
// original text on any failure.
type Service struct {
	backend Backend
	model   string
	logger  *zap.Logger
}

// New creates a translation Service.
func New(backend Backend, model string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{backend: backend, model: model, logger: logger}
}

// Translate returns text rendered in the target language. Empty input
// short-circuits without a network call. A single request is issued, no
// retry; empty completions, transport errors and service errors all log
// the cause and return the original text unchanged.
func (s *Service) Translate(ctx context.Context, text string, lang types.Language) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	out, err := s.backend.Complete(ctx, s.model, buildPrompt(text, lang))
	if err != nil {
		s.logger.Warn("translation failed, keeping original text",
			zap.String("language", string(lang)),
			zap.Error(err))
		return text
	}

	if strings.TrimSpace(out) == "" {
		s.logger.Warn("translation returned empty result, keeping original text",
			zap.String("language", string(lang)))
		return text
	}

	return out
}

func buildPrompt(text string, lang types.Language) string {
	return fmt.Sprintf(`Translate the following plant analysis report into %s.
Preserve markdown emphasis markers such as **bold** and *italic* exactly as they appear.
Keep technical terms, scientific names and proper nouns untranslated unless a natural %s equivalent exists.
Return only the translated text with no extra commentary.

%s`, lang, lang, text)
}
