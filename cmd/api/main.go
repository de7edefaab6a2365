package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/videoscribe/videoscribe/pkg/config"
	"github.com/videoscribe/videoscribe/pkg/media"
	"github.com/videoscribe/videoscribe/pkg/models"
	"github.com/videoscribe/videoscribe/pkg/queue"
	"github.com/videoscribe/videoscribe/pkg/storage"
	"github.com/videoscribe/videoscribe/pkg/templates"
	"github.com/videoscribe/videoscribe/pkg/transcriber"
	"github.com/videoscribe/videoscribe/pkg/worker"
)

// App holds the wired application components.
type App struct {
	config *config.Config
	queue  queue.Queue
	store  storage.Store
	pool   *worker.Pool
	engine *transcriber.Engine
}

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	// 1. Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	log.Println("✓ Config loaded")

	// 2. Make sure the working directories exist
	for _, dir := range []string{cfg.Paths.JobsDir, cfg.Paths.OutputDir, cfg.Paths.TempDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("❌ Failed to create directory %s: %v", dir, err)
		}
	}

	app := &App{config: cfg}

	// 3. Initialize storage
	app.store, err = storage.New(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize storage: %v", err)
	}
	log.Printf("✓ Storage ready (%s)", cfg.Storage.Type)

	// 4. Initialize queue
	app.queue, err = queue.New(cfg.Queue, cfg.Server.WorkerCount)
	if err != nil {
		log.Fatalf("❌ Failed to initialize queue: %v", err)
	}
	log.Printf("✓ Queue ready (%s)", cfg.Queue.Type)

	// 5. Initialize the transcription engine
	ffmpeg := media.NewFFmpeg()
	app.engine = transcriber.NewEngine(ffmpeg, app.transcriberFactory())
	log.Println("✓ Transcription engine ready")

	// 6. Start the worker pool
	app.pool = worker.NewPool(app.queue, app.store, app.engine,
		cfg.Paths.OutputDir, cfg.Paths.TempDir, cfg.Server.WorkerCount)
	app.pool.Start()

	// 7. Start the HTTP server
	router := app.setupRouter()
	addr := fmt.Sprintf(":%d", cfg.Server.Port)

	log.Printf("🚀 VideoScribe server listening on http://localhost:%d", cfg.Server.Port)
	log.Printf("📝 Settings:")
	log.Printf("   - workers: %d", cfg.Server.WorkerCount)
	log.Printf("   - whisper backend: %s (model %s)", cfg.Whisper.Backend, cfg.Whisper.Model)
	log.Printf("   - queue: %s", cfg.Queue.Type)
	log.Printf("   - storage: %s", cfg.Storage.Type)

	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	// 8. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down...")
	app.queue.Close()
	app.pool.Stop()
	app.store.Close()
	log.Println("✓ Server stopped")
}

// transcriberFactory builds speech backends according to the configured
// whisper backend. The model size comes from each job's settings.
func (app *App) transcriberFactory() transcriber.Factory {
	cfg := app.config.Whisper
	return func(modelSize string) (transcriber.Transcriber, error) {
		if modelSize == "" {
			modelSize = cfg.Model
		}
		switch cfg.Backend {
		case "openai":
			return transcriber.NewAPIWhisper(cfg.APIKey), nil
		default:
			return transcriber.NewLocalWhisper(cfg.BinaryPath, cfg.ModelDir, modelSize, cfg.NoGPU), nil
		}
	}
}

func (app *App) setupRouter() *gin.Engine {
	r := gin.Default()

	r.StaticFile("/", "./web/index.html")

	api := r.Group("/api")
	{
		api.GET("/ping", app.handlePing)
		api.POST("/upload", app.handleUpload)
		api.GET("/jobs", app.handleListJobs)
		api.GET("/jobs/fragment", app.handleJobsFragment)
		api.GET("/jobs/:job_id", app.handleGetJob)
		api.DELETE("/jobs/:job_id", app.handleDeleteJob)
		api.DELETE("/jobs", app.handleClearJobs)
		api.GET("/jobs/:job_id/transcript", app.handleDownloadTranscript)
		api.GET("/jobs/:job_id/pdf", app.handleDownloadPDF)
		api.GET("/jobs/:job_id/screenshots/:name", app.handleScreenshot)
	}

	return r
}

// isValidVideoFormat checks the upload against the supported containers.
func isValidVideoFormat(ext string) bool {
	validFormats := map[string]bool{
		".mp4":  true,
		".avi":  true,
		".mov":  true,
		".mkv":  true,
		".webm": true,
	}
	return validFormats[strings.ToLower(ext)]
}

func (app *App) handlePing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "pong",
		"version": "1.0.0",
	})
}

// parseSettings reads the per-job options from the upload form, falling
// back to the server defaults when a field is absent.
func (app *App) parseSettings(c *gin.Context) (models.JobSettings, error) {
	s := models.JobSettings{
		WhisperModel:       app.config.Whisper.Model,
		ChunkDuration:      app.config.Pipeline.ChunkDuration,
		ScreenshotInterval: app.config.Pipeline.ScreenshotInterval,
	}

	if v := c.PostForm("whisper_model"); v != "" {
		s.WhisperModel = v
	}
	if v := c.PostForm("chunk_duration"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 60 || n > 600 {
			return s, fmt.Errorf("chunk_duration must be between 60 and 600 seconds")
		}
		s.ChunkDuration = n
	}
	if v := c.PostForm("screenshot_interval"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return s, fmt.Errorf("screenshot_interval must be a positive number of seconds")
		}
		s.ScreenshotInterval = n
	}
	return s, nil
}

func (app *App) handleUpload(c *gin.Context) {
	// 1. Fetch the file
	file, err := c.FormFile("video")
	if err != nil {
		c.JSON(400, gin.H{"error": "please upload a video file"})
		return
	}

	// 2. Validate the format
	ext := filepath.Ext(file.Filename)
	if !isValidVideoFormat(ext) {
		c.JSON(400, gin.H{
			"error": fmt.Sprintf("unsupported format %s, supported: .mp4, .avi, .mov, .mkv, .webm", ext),
		})
		return
	}

	// 3. Validate the size
	if file.Size > app.config.Server.MaxUploadSize {
		c.JSON(400, gin.H{
			"error": fmt.Sprintf("file too large, maximum %.0f MB", float64(app.config.Server.MaxUploadSize)/1024/1024),
		})
		return
	}

	// 4. Parse per-job settings
	settings, err := app.parseSettings(c)
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	// 5. Save the upload under a short job ID
	jobID := uuid.New().String()[:8]
	savePath := filepath.Join(app.config.Paths.TempDir, jobID, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, savePath); err != nil {
		c.JSON(500, gin.H{"error": "failed to save file"})
		return
	}

	log.Printf("✓ File saved: %s (%.2f MB)", file.Filename, float64(file.Size)/1024/1024)

	// 6. Create the job record
	job := &models.TranscriptionJob{
		JobID:     jobID,
		Filename:  file.Filename,
		FilePath:  savePath,
		Status:    models.StatusCreated,
		Progress:  0,
		Settings:  settings,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := app.store.Save(job); err != nil {
		c.JSON(500, gin.H{"error": "failed to save job"})
		return
	}

	// 7. Enqueue for the worker pool
	if err := app.queue.Enqueue(job); err != nil {
		c.JSON(500, gin.H{"error": "failed to enqueue job"})
		return
	}

	log.Printf("✓ Job enqueued: %s", jobID)

	c.JSON(200, gin.H{
		"job_id":   jobID,
		"filename": file.Filename,
		"size":     file.Size,
		"status":   job.Status,
		"message":  "upload accepted, processing started",
	})
}

func (app *App) handleGetJob(c *gin.Context) {
	job, err := app.store.Get(c.Param("job_id"))
	if err != nil {
		c.JSON(404, gin.H{"error": "job not found"})
		return
	}
	c.JSON(200, job)
}

func (app *App) handleListJobs(c *gin.Context) {
	jobs, err := app.store.List()
	if err != nil {
		c.JSON(500, gin.H{"error": "failed to list jobs"})
		return
	}
	c.JSON(200, gin.H{
		"jobs":  jobs,
		"total": len(jobs),
	})
}

// handleJobsFragment returns the job list as a rendered HTML fragment
// for the polling front end.
func (app *App) handleJobsFragment(c *gin.Context) {
	jobs, err := app.store.List()
	if err != nil {
		c.String(500, "failed to list jobs")
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(200, string(templates.RenderJobList(jobs)))
}

func (app *App) handleDeleteJob(c *gin.Context) {
	jobID := c.Param("job_id")
	if err := app.store.Delete(jobID); err != nil {
		c.JSON(404, gin.H{"error": "job not found"})
		return
	}
	log.Printf("✓ Job deleted: %s", jobID)
	c.JSON(200, gin.H{"deleted": jobID})
}

// handleClearJobs deletes every job together with its outputs.
func (app *App) handleClearJobs(c *gin.Context) {
	jobs, err := app.store.List()
	if err != nil {
		c.JSON(500, gin.H{"error": "failed to list jobs"})
		return
	}

	deleted := 0
	for _, job := range jobs {
		if err := app.store.Delete(job.JobID); err != nil {
			log.Printf("⚠️  Failed to delete job %s: %v", job.JobID, err)
			continue
		}
		deleted++
	}

	log.Printf("✓ Cleared %d jobs", deleted)
	c.JSON(200, gin.H{"deleted": deleted})
}

// serveResult streams a completed job's output file as a download.
func (app *App) serveResult(c *gin.Context, pick func(*models.TranscriptionJob) string, downloadName string) {
	job, err := app.store.Get(c.Param("job_id"))
	if err != nil {
		c.JSON(404, gin.H{"error": "job not found"})
		return
	}
	if job.Status != models.StatusCompleted {
		c.JSON(400, gin.H{"error": "job has not completed yet"})
		return
	}

	path := pick(job)
	if path == "" {
		c.JSON(404, gin.H{"error": "output not available"})
		return
	}
	if _, err := os.Stat(path); err != nil {
		c.JSON(404, gin.H{"error": "output file is missing"})
		return
	}

	c.FileAttachment(path, downloadName)
}

func (app *App) handleDownloadTranscript(c *gin.Context) {
	app.serveResult(c, func(j *models.TranscriptionJob) string { return j.TxtPath },
		"transcript.txt")
}

func (app *App) handleDownloadPDF(c *gin.Context) {
	app.serveResult(c, func(j *models.TranscriptionJob) string { return j.PDFPath },
		"transcript.pdf")
}

// handleScreenshot serves a single captured frame from the job's output
// directory. The name is sanitized to block path traversal.
func (app *App) handleScreenshot(c *gin.Context) {
	jobID := c.Param("job_id")
	name := filepath.Base(c.Param("name"))
	if name == "." || name == ".." || !strings.HasSuffix(name, ".jpg") {
		c.JSON(400, gin.H{"error": "invalid screenshot name"})
		return
	}

	if _, err := app.store.Get(jobID); err != nil {
		c.JSON(404, gin.H{"error": "job not found"})
		return
	}

	path := filepath.Join(app.config.Paths.OutputDir, jobID, name)
	if _, err := os.Stat(path); err != nil {
		c.JSON(404, gin.H{"error": "screenshot not found"})
		return
	}
	c.File(path)
}
