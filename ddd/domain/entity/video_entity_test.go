package entity

import (
	"testing"

	"video-aggregation-service/ddd/domain/vo"
)

func TestNewVideoEntityStartsProcessing(t *testing.T) {
	e := NewVideoEntity("movie.mp4", "job_abc123_final.mp4", "http://localhost:8084/api/video_storage/job_abc123_final.mp4", "src-1")

	if e.ID() == "" {
		t.Error("expected generated id")
	}
	if e.Status() != vo.VideoStatusProcessing {
		t.Errorf("new entity status = %s, want processing", e.Status())
	}
	if e.SourceVideoID() != "src-1" {
		t.Errorf("source video id = %q", e.SourceVideoID())
	}
}

func TestMarkSavedRecordsMediaProperties(t *testing.T) {
	e := NewVideoEntity("movie.mp4", "key.mp4", "http://example/key.mp4", "")

	if err := e.MarkSaved(1024, 12.5, "1280x720", ""); err != nil {
		t.Fatalf("MarkSaved failed: %v", err)
	}
	if e.Status() != vo.VideoStatusSaved {
		t.Errorf("status = %s, want saved", e.Status())
	}
	if e.FileSizeBytes() != 1024 || e.DurationSeconds() != 12.5 || e.Resolution() != "1280x720" {
		t.Errorf("media properties not recorded: size=%d duration=%f resolution=%s",
			e.FileSizeBytes(), e.DurationSeconds(), e.Resolution())
	}
	if e.AccessLink() != "http://example/key.mp4" {
		t.Errorf("empty access link should keep existing link, got %q", e.AccessLink())
	}
}

func TestMarkFailedRecordsMessage(t *testing.T) {
	e := NewVideoEntity("movie.mp4", "key.mp4", "link", "")

	if err := e.MarkFailed("ffmpeg exited with error"); err != nil {
		t.Fatalf("MarkFailed failed: %v", err)
	}
	if e.Status() != vo.VideoStatusFailed {
		t.Errorf("status = %s, want failed", e.Status())
	}
	if e.ErrorMessage() != "ffmpeg exited with error" {
		t.Errorf("error message = %q", e.ErrorMessage())
	}
}

func TestTerminalStatesRejectFurtherTransitions(t *testing.T) {
	saved := NewVideoEntity("a.mp4", "k", "l", "")
	if err := saved.MarkSaved(1, 1, "640x360", ""); err != nil {
		t.Fatalf("MarkSaved failed: %v", err)
	}
	if err := saved.MarkFailed("late failure"); err == nil {
		t.Error("saved record must not transition to failed")
	}

	failed := NewVideoEntity("b.mp4", "k", "l", "")
	if err := failed.MarkFailed("boom"); err != nil {
		t.Fatalf("MarkFailed failed: %v", err)
	}
	if err := failed.MarkSaved(1, 1, "640x360", ""); err == nil {
		t.Error("failed record must not transition to saved")
	}
}

func TestSetEnrichmentStoredVerbatim(t *testing.T) {
	e := NewVideoEntity("a.mp4", "k", "l", "")
	objects := map[string]int{"person": 3, "car": 1}

	e.SetEnrichment("fr", objects)

	if e.DetectedLanguage() != "fr" {
		t.Errorf("detected language = %q", e.DetectedLanguage())
	}
	if e.DetectedObjects()["person"] != 3 || e.DetectedObjects()["car"] != 1 {
		t.Errorf("detected objects = %v", e.DetectedObjects())
	}
}
