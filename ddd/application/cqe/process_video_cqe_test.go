package cqe

import (
	"mime/multipart"
	"testing"

	"video-aggregation-service/ddd/domain/vo"
	"video-aggregation-service/pkg/errno"
)

func TestProcessVideoReqRequiresVideoFile(t *testing.T) {
	req := &ProcessVideoReq{}
	if err := req.Validate(); err != errno.ErrVideoFileRequired {
		t.Fatalf("expected ErrVideoFileRequired, got %v", err)
	}
}

func TestProcessVideoReqDefaults(t *testing.T) {
	req := &ProcessVideoReq{
		Video: &multipart.FileHeader{Filename: "a.mp4", Size: 10},
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if req.Resolution != vo.DefaultResolution {
		t.Errorf("resolution default = %q, want %q", req.Resolution, vo.DefaultResolution)
	}
	if req.CRF() != vo.DefaultCRF {
		t.Errorf("crf default = %d, want %d", req.CRF(), vo.DefaultCRF)
	}
}

func TestProcessVideoReqCrfBounds(t *testing.T) {
	for _, crf := range []int{0, 23, 51} {
		c := crf
		req := &ProcessVideoReq{
			Video:    &multipart.FileHeader{Filename: "a.mp4"},
			CrfValue: &c,
		}
		if err := req.Validate(); err != nil {
			t.Errorf("crf %d should be accepted: %v", crf, err)
		}
	}
	for _, crf := range []int{-1, 52} {
		c := crf
		req := &ProcessVideoReq{
			Video:    &multipart.FileHeader{Filename: "a.mp4"},
			CrfValue: &c,
		}
		if err := req.Validate(); err != errno.ErrCrfOutOfRange {
			t.Errorf("crf %d: expected ErrCrfOutOfRange, got %v", crf, err)
		}
	}
}

func TestProcessVideoReqParsesDetectedObjects(t *testing.T) {
	req := &ProcessVideoReq{
		Video:           &multipart.FileHeader{Filename: "a.mp4"},
		DetectedObjects: `{"person": 2, "dog": 1}`,
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	objects := req.ObjectCounts()
	if objects["person"] != 2 || objects["dog"] != 1 {
		t.Errorf("parsed objects = %v", objects)
	}
}

func TestProcessVideoReqRejectsMalformedObjects(t *testing.T) {
	req := &ProcessVideoReq{
		Video:           &multipart.FileHeader{Filename: "a.mp4"},
		DetectedObjects: `not-json`,
	}
	if err := req.Validate(); err == nil {
		t.Fatal("malformed detected_objects should be rejected")
	}
}

func TestListVideosReqValidation(t *testing.T) {
	req := &ListVideosReq{Status: "saved", Limit: 0}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if req.Limit != 100 {
		t.Errorf("limit default = %d, want 100", req.Limit)
	}
	if filter := req.StatusFilter(); filter == nil || *filter != vo.VideoStatusSaved {
		t.Errorf("status filter = %v", filter)
	}

	bad := &ListVideosReq{Status: "archived"}
	if err := bad.Validate(); err != errno.ErrInvalidStatus {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}

	all := &ListVideosReq{}
	if err := all.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if all.StatusFilter() != nil {
		t.Error("empty status should produce nil filter")
	}
}
