// Package plantanalyzer submits plant and soil photographs to a remote
// analysis webhook and renders the returned report in the user's language.
//
// The package combines three components:
//
//  1. Normalizer (pkg/normalizer): decodes an uploaded image, bounds its
//     long edge and re-encodes it as a compact JPEG.
//  2. Submission client (pkg/submit): POSTs the normalized image as
//     multipart/form-data, classifying HTTP outcomes and retrying
//     transient failures with exponential backoff.
//  3. Translation service (pkg/translate): optionally renders the report
//     in another display language through a generative model, falling
//     back to the original text on any failure.
//
// Basic usage:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//		"log"
//		"os"
//
//		plantanalyzer "github.com/plantlens/plant-analyzer"
//		"github.com/plantlens/plant-analyzer/pkg/types"
//	)
//
//	func main() {
//		analyzer, err := plantanalyzer.New(nil, nil)
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		f, err := os.Open("leaf.jpg")
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer f.Close()
//
//		report, err := analyzer.AnalyzeImage(context.Background(), f, "leaf.jpg", types.English)
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		fmt.Println(report)
//		fmt.Println(analyzer.TranslateText(context.Background(), report, types.Hindi))
//	}
package plantanalyzer

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/plantlens/plant-analyzer/internal/config"
	"github.com/plantlens/plant-analyzer/pkg/normalizer"
	"github.com/plantlens/plant-analyzer/pkg/submit"
	"github.com/plantlens/plant-analyzer/pkg/translate"
	"github.com/plantlens/plant-analyzer/pkg/types"
)

// Version of the plant analyzer library
const Version = "1.0.0"

// Analyzer provides a high-level interface for image analysis and translation
type Analyzer struct {
	normalizer *normalizer.Normalizer
	client     *submit.Client
	translator *translate.Service
}

// New creates an Analyzer from configuration. A nil cfg uses defaults
// (environment variables are not read; use config.Load for that). A nil
// logger disables logging.
func New(cfg *config.Config, logger *zap.Logger) (*Analyzer, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	backend, err := newBackend(cfg)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		normalizer: normalizer.NewWithConfig(normalizer.Config{
			MaxEdge: cfg.MaxImageEdge,
			Quality: cfg.JPEGQuality,
		}),
		client: submit.NewClient(submit.Options{
			EndpointURL:  cfg.EndpointURL,
			MaxRetries:   cfg.MaxRetries,
			InitialDelay: cfg.InitialDelay,
			Logger:       logger,
		}),
		translator: translate.New(backend, cfg.Model, logger),
	}, nil
}

// NewWithComponents creates an Analyzer from caller-supplied components.
func NewWithComponents(n *normalizer.Normalizer, c *submit.Client, t *translate.Service) *Analyzer {
	return &Analyzer{
		normalizer: n,
		client:     c,
		translator: t,
	}
}

func newBackend(cfg *config.Config) (translate.Backend, error) {
	switch cfg.TranslateBackend {
	case config.BackendGemini:
		return translate.NewGemini(cfg.GeminiAPIKey), nil
	case config.BackendOllama:
		return translate.NewOllama(cfg.OllamaURL)
	default:
		return nil, fmt.Errorf("unknown translate backend: %s (use 'gemini' or 'ollama')", cfg.TranslateBackend)
	}
}

// AnalyzeImage normalizes the uploaded image and submits it for analysis,
// returning the report text. Normalization failures and fatal submission
// errors propagate to the caller; transient submission failures are
// retried before an exhausted-retries error is returned.
func (a *Analyzer) AnalyzeImage(ctx context.Context, r io.Reader, filename string, lang types.Language) (string, error) {
	img, err := a.normalizer.Normalize(r, filename)
	if err != nil {
		return "", fmt.Errorf("normalize image: %w", err)
	}

	return a.client.Submit(ctx, img, lang)
}

// TranslateText renders the report in the target language. It never
// fails: on any translation problem the original text is returned.
func (a *Analyzer) TranslateText(ctx context.Context, text string, lang types.Language) string {
	return a.translator.Translate(ctx, text, lang)
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
