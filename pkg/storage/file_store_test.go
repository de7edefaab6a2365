package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/videoscribe/videoscribe/pkg/models"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	root := t.TempDir()
	fs, err := NewFileStore(
		filepath.Join(root, "jobs"),
		filepath.Join(root, "output"),
		filepath.Join(root, "temp"),
	)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return fs
}

func testJob(id string) *models.TranscriptionJob {
	return &models.TranscriptionJob{
		JobID:     id,
		Filename:  "lecture.mp4",
		Status:    models.StatusCreated,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestFileStoreSaveGet(t *testing.T) {
	fs := newTestFileStore(t)

	job := testJob("abc12345")
	job.Settings = models.JobSettings{WhisperModel: "base", ChunkDuration: 300, ScreenshotInterval: 60}
	if err := fs.Save(job); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := fs.Get("abc12345")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.JobID != job.JobID || got.Filename != job.Filename {
		t.Errorf("got %+v", got)
	}
	if got.Settings.ChunkDuration != 300 {
		t.Errorf("settings not round-tripped: %+v", got.Settings)
	}
}

func TestFileStoreGetMissing(t *testing.T) {
	fs := newTestFileStore(t)
	if _, err := fs.Get("nope"); err == nil {
		t.Fatal("expected error for missing job")
	}
}

func TestFileStoreUpdate(t *testing.T) {
	fs := newTestFileStore(t)
	job := testJob("abc12345")
	before := job.UpdatedAt
	if err := fs.Save(job); err != nil {
		t.Fatalf("Save: %v", err)
	}

	err := fs.Update("abc12345", func(j *models.TranscriptionJob) {
		j.Status = "Transcribing chunk 1/3..."
		j.Progress = 25
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := fs.Get("abc12345")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != "Transcribing chunk 1/3..." || got.Progress != 25 {
		t.Errorf("got %+v", got)
	}
	if !got.UpdatedAt.After(before) {
		t.Error("UpdatedAt not refreshed")
	}
}

func TestFileStoreListNewestFirst(t *testing.T) {
	fs := newTestFileStore(t)

	older := testJob("older001")
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := testJob("newer001")

	if err := fs.Save(older); err != nil {
		t.Fatal(err)
	}
	if err := fs.Save(newer); err != nil {
		t.Fatal(err)
	}

	jobs, err := fs.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs, want 2", len(jobs))
	}
	if jobs[0].JobID != "newer001" || jobs[1].JobID != "older001" {
		t.Errorf("wrong order: %s, %s", jobs[0].JobID, jobs[1].JobID)
	}
}

func TestFileStoreListSkipsUnreadableRecords(t *testing.T) {
	fs := newTestFileStore(t)
	if err := fs.Save(testJob("good0001")); err != nil {
		t.Fatal(err)
	}

	bad := filepath.Join(fs.jobsDir, "broken01.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	jobs, err := fs.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(jobs) != 1 || jobs[0].JobID != "good0001" {
		t.Errorf("got %+v", jobs)
	}
}

func TestFileStoreDeleteRemovesArtifacts(t *testing.T) {
	fs := newTestFileStore(t)
	if err := fs.Save(testJob("abc12345")); err != nil {
		t.Fatal(err)
	}

	outDir := filepath.Join(fs.outputDir, "abc12345")
	tempDir := filepath.Join(fs.tempDir, "abc12345")
	for _, dir := range []string{outDir, tempDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "f.txt"), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	if err := fs.Delete("abc12345"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := fs.Get("abc12345"); err == nil {
		t.Error("record still readable after delete")
	}
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Error("output directory not removed")
	}
	if _, err := os.Stat(tempDir); !os.IsNotExist(err) {
		t.Error("temp directory not removed")
	}
}

func TestFileStoreSaveLeavesNoTempFiles(t *testing.T) {
	fs := newTestFileStore(t)
	for i := 0; i < 5; i++ {
		if err := fs.Save(testJob("abc12345")); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := os.ReadDir(fs.jobsDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".job-tmp-") {
			t.Errorf("leftover temp file: %s", e.Name())
		}
	}
}
