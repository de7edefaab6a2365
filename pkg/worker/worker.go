package worker

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/videoscribe/videoscribe/pkg/document"
	"github.com/videoscribe/videoscribe/pkg/models"
	"github.com/videoscribe/videoscribe/pkg/queue"
	"github.com/videoscribe/videoscribe/pkg/storage"
	"github.com/videoscribe/videoscribe/pkg/transcriber"
)

// Pool runs submitted jobs on background workers so the front end stays
// responsive. Each job is processed start-to-finish by one worker; the
// ledger record is the only state shared with observers.
type Pool struct {
	queue     queue.Queue
	store     storage.Store
	engine    *transcriber.Engine
	outputDir string
	tempDir   string
	count     int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPool creates a pool of count workers.
func NewPool(q queue.Queue, store storage.Store, engine *transcriber.Engine, outputDir, tempDir string, count int) *Pool {
	if count <= 0 {
		count = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		queue:     q,
		store:     store,
		engine:    engine,
		outputDir: outputDir,
		tempDir:   tempDir,
		count:     count,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start launches the workers.
func (p *Pool) Start() {
	for i := 0; i < p.count; i++ {
		p.wg.Add(1)
		go p.run(i)
	}
}

// Stop cancels the workers and waits for them to exit. Close the queue
// first: an idle worker blocks in Dequeue until the queue shuts down.
func (p *Pool) Stop() {
	log.Println("Stopping workers...")
	p.cancel()
	p.wg.Wait()
}

func (p *Pool) run(id int) {
	defer p.wg.Done()
	log.Printf("Worker %d started, waiting for jobs...", id)

	for {
		select {
		case <-p.ctx.Done():
			log.Printf("Worker %d stopped", id)
			return
		default:
		}

		job, err := p.queue.Dequeue()
		if err != nil {
			select {
			case <-p.ctx.Done():
				log.Printf("Worker %d stopped", id)
				return
			case <-time.After(time.Second):
				continue
			}
		}

		p.processJob(job)
	}
}

// processJob runs the full pipeline for one job. Any error or panic lands
// in the ledger as "Failed: <reason>"; there is no retry.
func (p *Pool) processJob(job *models.TranscriptionJob) {
	log.Printf("📝 Processing job %s (%s)", job.JobID, job.Filename)

	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Job %s panicked: %v", job.JobID, r)
			p.markFailed(job, fmt.Sprintf("%v", r))
			p.queue.Nack(job, false)
		}
	}()

	progress := func(status string, pct int) {
		p.store.Update(job.JobID, func(j *models.TranscriptionJob) {
			j.Status = status
			if pct > j.Progress {
				j.Progress = pct
			}
		})
		log.Printf("Job %s: %s (%d%%)", job.JobID, status, pct)
	}

	jobOutputDir := filepath.Join(p.outputDir, job.JobID)
	startTime := time.Now()

	summary, err := p.engine.Process(p.ctx, transcriber.Request{
		VideoPath:          job.FilePath,
		WorkDir:            filepath.Join(p.tempDir, job.JobID),
		OutputDir:          jobOutputDir,
		ModelSize:          job.Settings.WhisperModel,
		ChunkDuration:      job.Settings.ChunkDuration,
		ScreenshotInterval: job.Settings.ScreenshotInterval,
	}, progress)
	if err != nil {
		log.Printf("❌ Job %s failed: %v", job.JobID, err)
		p.markFailed(job, err.Error())
		p.queue.Nack(job, false)
		return
	}

	// Assemble outputs. A failed write is recorded but does not fail the
	// job; earlier outputs stay valid.
	var outputErrs []string

	progress("Saving text transcript...", 95)
	txtPath := filepath.Join(jobOutputDir, "transcript.txt")
	if err := document.WriteTranscript(summary.Entries, txtPath); err != nil {
		log.Printf("⚠️  Job %s: text output failed: %v", job.JobID, err)
		outputErrs = append(outputErrs, err.Error())
		txtPath = ""
	}

	progress("Creating PDF with screenshots...", 98)
	pdfPath := filepath.Join(jobOutputDir, "transcript.pdf")
	if err := document.WritePDF(summary.Entries, summary.Screenshots, pdfPath); err != nil {
		log.Printf("⚠️  Job %s: PDF output failed: %v", job.JobID, err)
		outputErrs = append(outputErrs, err.Error())
		pdfPath = ""
	}

	p.store.Update(job.JobID, func(j *models.TranscriptionJob) {
		j.Status = models.StatusCompleted
		j.Progress = 100
		j.CompletedAt = time.Now()
		j.TxtPath = txtPath
		j.PDFPath = pdfPath
		j.NumSegments = len(summary.Entries)
		j.NumScreenshots = len(summary.Screenshots)
		j.Error = strings.Join(outputErrs, "; ")
	})
	p.queue.Ack(job)

	log.Printf("🎉 Job %s completed in %.2f minutes (%d segments, %d screenshots)",
		job.JobID, time.Since(startTime).Minutes(), len(summary.Entries), len(summary.Screenshots))
}

func (p *Pool) markFailed(job *models.TranscriptionJob, reason string) {
	p.store.Update(job.JobID, func(j *models.TranscriptionJob) {
		j.Status = models.StatusFailedPrefix + reason
		j.Error = reason
		j.CompletedAt = time.Now()
	})
}
