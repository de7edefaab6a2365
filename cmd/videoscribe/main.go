package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/videoscribe/videoscribe/pkg/config"
	"github.com/videoscribe/videoscribe/pkg/corrector"
	"github.com/videoscribe/videoscribe/pkg/document"
	"github.com/videoscribe/videoscribe/pkg/media"
	"github.com/videoscribe/videoscribe/pkg/refdoc"
	"github.com/videoscribe/videoscribe/pkg/transcriber"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	refDoc := flag.String("ref-doc", "", "reference document (.pdf or plain text) used to improve the transcript")
	output := flag.String("output", "", "output transcript path (default: <video>.txt)")
	outputPDF := flag.String("output-pdf", "", "output PDF path (default: <video>_transcript.pdf)")
	whisperModel := flag.String("whisper-model", "base", "whisper model size (tiny, base, small, medium, large)")
	ollamaModel := flag.String("ollama-model", "", "ollama model used for correction")
	noGPU := flag.Bool("no-gpu", false, "disable GPU acceleration for local whisper")
	chunkDuration := flag.Int("chunk-duration", 300, "audio chunk duration in seconds")
	screenshotInterval := flag.Int("screenshot-interval", 60, "seconds between screenshots")
	skipCorrection := flag.Bool("skip-correction", false, "skip the LLM correction pass")
	skipPDF := flag.Bool("skip-pdf", false, "skip PDF generation")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: videoscribe [flags] <video file>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	videoPath := flag.Arg(0)

	// 1. Load configuration
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("❌ Failed to load config: %v", err)
		}
	} else {
		cfg = config.Default()
	}
	if *ollamaModel != "" {
		cfg.Ollama.Model = *ollamaModel
	}
	if *skipCorrection {
		cfg.Ollama.Skip = true
	}

	// 2. Derive output paths from the video name
	base := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
	txtPath := *output
	if txtPath == "" {
		txtPath = base + ".txt"
	}
	pdfPath := *outputPDF
	if pdfPath == "" {
		pdfPath = base + "_transcript.pdf"
	}

	// 3. Cancel cleanly on Ctrl+C
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Println("🛑 Interrupted, stopping...")
		cancel()
	}()

	// 4. Build the correction pass (optional)
	var corr transcriber.Corrector
	if !cfg.Ollama.Skip {
		refContext := ""
		if *refDoc != "" {
			refContext, err = refdoc.Extract(*refDoc)
			if err != nil {
				log.Fatalf("❌ Failed to read reference document: %v", err)
			}
			log.Printf("✓ Reference document loaded (%d chars)", len(refContext))
		}

		c := corrector.New(cfg.Ollama.Host, cfg.Ollama.Model, refContext)
		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		err := c.Ping(pingCtx)
		pingCancel()
		if err != nil {
			log.Printf("⚠️  Ollama not reachable at %s, correction disabled: %v", cfg.Ollama.Host, err)
		} else {
			corr = c
			log.Printf("✓ Correction enabled (%s)", cfg.Ollama.Model)
		}
	}

	// 5. Run the pipeline
	workDir, err := os.MkdirTemp("", "videoscribe-*")
	if err != nil {
		log.Fatalf("❌ Failed to create temp directory: %v", err)
	}
	defer os.RemoveAll(workDir)

	engine := transcriber.NewEngine(media.NewFFmpeg(), func(modelSize string) (transcriber.Transcriber, error) {
		if modelSize == "" {
			modelSize = cfg.Whisper.Model
		}
		if cfg.Whisper.Backend == "openai" {
			return transcriber.NewAPIWhisper(cfg.Whisper.APIKey), nil
		}
		return transcriber.NewLocalWhisper(cfg.Whisper.BinaryPath, cfg.Whisper.ModelDir, modelSize, *noGPU || cfg.Whisper.NoGPU), nil
	})

	log.Printf("🎬 Processing %s", videoPath)
	summary, err := engine.Process(ctx, transcriber.Request{
		VideoPath:          videoPath,
		WorkDir:            workDir,
		ModelSize:          *whisperModel,
		ChunkDuration:      *chunkDuration,
		ScreenshotInterval: *screenshotInterval,
		Corrector:          corr,
	}, func(status string, pct int) {
		log.Printf("[%3d%%] %s", pct, status)
	})
	if err != nil {
		log.Fatalf("❌ Processing failed: %v", err)
	}

	// 6. Write the outputs
	if err := document.WriteTranscript(summary.Entries, txtPath); err != nil {
		log.Fatalf("❌ Failed to write transcript: %v", err)
	}
	log.Printf("✓ Transcript written: %s", txtPath)

	if !*skipPDF {
		if err := document.WritePDF(summary.Entries, summary.Screenshots, pdfPath); err != nil {
			log.Printf("⚠️  Failed to write PDF: %v", err)
		} else {
			log.Printf("✓ PDF written: %s", pdfPath)
		}
	}

	log.Printf("🎉 Done: %d segments, %d screenshots", len(summary.Entries), len(summary.Screenshots))
}
