package templates

import (
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"

	"github.com/videoscribe/videoscribe/pkg/models"
)

// FormatTime renders a timestamp relative to now for the job list.
func FormatTime(t time.Time) string {
	diff := time.Since(t)

	if diff < time.Minute {
		return "just now"
	}
	if diff < time.Hour {
		return fmt.Sprintf("%d min ago", int(diff.Minutes()))
	}
	if diff < 24*time.Hour {
		return fmt.Sprintf("%d h ago", int(diff.Hours()))
	}
	return t.Format("2006-01-02 15:04")
}

// StatusIcon picks the marker shown next to a job.
func StatusIcon(job *models.TranscriptionJob) string {
	switch {
	case job.Status == models.StatusCompleted:
		return "✅"
	case job.Failed():
		return "❌"
	case job.Status == models.StatusCreated:
		return "⏳"
	default:
		return "🔄"
	}
}

var cardTemplate = template.Must(template.New("card").Parse(`<div class="job-card" data-job-id="{{.JobID}}">
  <div class="job-title">{{.Icon}} {{.Filename}}</div>
  <div class="job-meta">ID: {{.ShortID}} · {{.Created}}</div>
  <div class="job-status">{{.Status}}</div>
  {{if .ShowProgress}}<div class="job-progress"><div class="job-progress-bar" style="width: {{.Progress}}%"></div></div>{{end}}
  {{if .Completed}}<div class="job-results">
    <a href="/api/jobs/{{.JobID}}/transcript">transcript.txt</a>
    {{if .HasPDF}}<a href="/api/jobs/{{.JobID}}/pdf">transcript.pdf</a>{{end}}
    <span>{{.NumSegments}} segments, {{.NumScreenshots}} screenshots</span>
  </div>{{end}}
  <button class="job-delete" data-job-id="{{.JobID}}">🗑️</button>
</div>`))

type cardData struct {
	JobID          string
	ShortID        string
	Icon           string
	Filename       string
	Created        string
	Status         string
	Progress       int
	ShowProgress   bool
	Completed      bool
	HasPDF         bool
	NumSegments    int
	NumScreenshots int
}

// RenderJobCard renders one job as an HTML fragment for the job list.
func RenderJobCard(job *models.TranscriptionJob) template.HTML {
	shortID := job.JobID
	if len(shortID) > 4 {
		shortID = shortID[:4]
	}

	var buf strings.Builder
	err := cardTemplate.Execute(&buf, cardData{
		JobID:          job.JobID,
		ShortID:        shortID,
		Icon:           StatusIcon(job),
		Filename:       job.Filename,
		Created:        FormatTime(job.CreatedAt),
		Status:         job.Status,
		Progress:       job.Progress,
		ShowProgress:   !job.Terminal(),
		Completed:      job.Status == models.StatusCompleted,
		HasPDF:         job.PDFPath != "",
		NumSegments:    job.NumSegments,
		NumScreenshots: job.NumScreenshots,
	})
	if err != nil {
		log.Printf("⚠️  Failed to render job card %s: %v", job.JobID, err)
	}
	return template.HTML(buf.String())
}

// RenderJobList renders all job cards, or a placeholder when empty.
func RenderJobList(jobs []*models.TranscriptionJob) template.HTML {
	if len(jobs) == 0 {
		return template.HTML(`<div class="empty">No jobs available</div>`)
	}

	var buf strings.Builder
	for _, job := range jobs {
		buf.WriteString(string(RenderJobCard(job)))
		buf.WriteByte('\n')
	}
	return template.HTML(buf.String())
}
