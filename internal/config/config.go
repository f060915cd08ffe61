package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Backend names accepted for translation.
const (
	BackendGemini = "gemini"
	BackendOllama = "ollama"
)

// Config holds the application configuration
type Config struct {
	// EndpointURL is the analysis webhook address.
	EndpointURL string `env:"PLANT_ANALYZER_ENDPOINT" envDefault:"https://api.plantlens.dev/webhook/plant-analysis"`
	// MaxRetries bounds submission attempts.
	MaxRetries int `env:"PLANT_ANALYZER_MAX_RETRIES" envDefault:"3"`
	// InitialDelay is the first retry backoff; it doubles per attempt.
	InitialDelay time.Duration `env:"PLANT_ANALYZER_INITIAL_DELAY" envDefault:"1s"`
	// MaxImageEdge bounds the long edge of submitted images in pixels.
	MaxImageEdge int `env:"PLANT_ANALYZER_MAX_IMAGE_EDGE" envDefault:"1024"`
	// JPEGQuality is the re-encode quality (1-100).
	JPEGQuality int `env:"PLANT_ANALYZER_JPEG_QUALITY" envDefault:"70"`
	// TranslateBackend selects the translation service: gemini or ollama.
	TranslateBackend string `env:"PLANT_ANALYZER_TRANSLATE_BACKEND" envDefault:"gemini"`
	// Model is the generative model used for translation.
	Model string `env:"PLANT_ANALYZER_TRANSLATE_MODEL" envDefault:"gemini-2.0-flash"`
	// GeminiAPIKey authenticates the gemini backend.
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	// OllamaURL is the ollama server address.
	OllamaURL string `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		EndpointURL:      "https://api.plantlens.dev/webhook/plant-analysis",
		MaxRetries:       3,
		InitialDelay:     time.Second,
		MaxImageEdge:     1024,
		JPEGQuality:      70,
		TranslateBackend: BackendGemini,
		Model:            "gemini-2.0-flash",
		OllamaURL:        "http://localhost:11434",
	}
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.EndpointURL == "" {
		return fmt.Errorf("endpoint URL cannot be empty")
	}

	if c.MaxRetries < 1 {
		return fmt.Errorf("max_retries must be at least 1")
	}

	if c.InitialDelay <= 0 {
		return fmt.Errorf("initial_delay must be positive")
	}

	if c.MaxImageEdge < 1 {
		return fmt.Errorf("max_image_edge must be positive")
	}

	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality must be between 1 and 100")
	}

	if c.TranslateBackend != BackendGemini && c.TranslateBackend != BackendOllama {
		return fmt.Errorf("translate_backend must be %q or %q", BackendGemini, BackendOllama)
	}

	return nil
}
