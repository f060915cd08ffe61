package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	plantanalyzer "github.com/plantlens/plant-analyzer"
	"github.com/plantlens/plant-analyzer/internal/config"
	"github.com/plantlens/plant-analyzer/internal/logging"
	"github.com/plantlens/plant-analyzer/internal/utils"
	"github.com/plantlens/plant-analyzer/pkg/types"
)

func main() {
	var in, lang, endpoint, translateTo, backend, model, ollamaURL string
	var retries, maxEdge, quality int
	var delay time.Duration
	var verbose bool

	flag.StringVar(&in, "in", "", "input image path (jpg/png/webp)")
	flag.StringVar(&lang, "lang", "English", "report language: English|Hindi|Bengali")
	flag.StringVar(&endpoint, "endpoint", "", "analysis webhook URL (overrides PLANT_ANALYZER_ENDPOINT)")
	flag.StringVar(&translateTo, "translate", "", "translate the report into this language after analysis")
	flag.StringVar(&backend, "backend", "", "translation backend: gemini or ollama")
	flag.StringVar(&model, "model", "", "translation model name")
	flag.StringVar(&ollamaURL, "url", "", "ollama server URL")
	flag.IntVar(&retries, "retries", 0, "max submission attempts")
	flag.IntVar(&maxEdge, "maxedge", 0, "max long edge sent to the analysis service (px)")
	flag.IntVar(&quality, "quality", 0, "JPEG quality for the submitted image (1-100)")
	flag.DurationVar(&delay, "delay", 0, "initial retry backoff delay")
	flag.BoolVar(&verbose, "v", false, "verbose logging")

	flag.Parse()
	if in == "" {
		log.Fatalf("usage: %s -in leaf.jpg [-lang English|Hindi|Bengali] [-translate Hindi] [-backend gemini|ollama]", filepath.Base(os.Args[0]))
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if endpoint != "" {
		cfg.EndpointURL = endpoint
	}
	if backend != "" {
		cfg.TranslateBackend = backend
	}
	if model != "" {
		cfg.Model = model
	}
	if ollamaURL != "" {
		cfg.OllamaURL = ollamaURL
	}
	if retries > 0 {
		cfg.MaxRetries = retries
	}
	if maxEdge > 0 {
		cfg.MaxImageEdge = maxEdge
	}
	if quality > 0 {
		cfg.JPEGQuality = quality
	}
	if delay > 0 {
		cfg.InitialDelay = delay
	}

	language, err := types.ParseLanguage(lang)
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewLogger()
	if verbose {
		logger, err = logging.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	analyzer, err := plantanalyzer.New(cfg, logger)
	if err != nil {
		log.Fatal(err)
	}

	if !utils.IsImageFile(in) {
		log.Fatalf("not an image file: %s", in)
	}

	f, err := os.Open(in)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil {
		log.Printf("analyzing %s (%s)", in, utils.FormatFileSize(info.Size()))
	}

	report, err := analyzer.AnalyzeImage(context.Background(), f, filepath.Base(in), language)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(report)

	if translateTo != "" {
		target, err := types.ParseLanguage(translateTo)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println()
		fmt.Println(analyzer.TranslateText(context.Background(), report, target))
	}
}
