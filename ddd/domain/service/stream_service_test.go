package service

import (
	"errors"
	"testing"

	"video-aggregation-service/pkg/errno"
)

func assertRangeNotSatisfiable(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var bizErr *errno.BizError
	if !errors.As(err, &bizErr) {
		t.Fatalf("expected BizError, got %T: %v", err, err)
	}
	if bizErr.Errno != errno.ErrRangeNotSatisfiable {
		t.Fatalf("expected ErrRangeNotSatisfiable, got code %d", bizErr.Errno.Code)
	}
}

func TestPlanNoHeaderReturnsFullContent(t *testing.T) {
	svc := NewStreamService()

	plan, err := svc.Plan(1000, "")
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if plan.Partial {
		t.Error("expected full-content plan")
	}
	if plan.Start != 0 || plan.Length != 1000 || plan.TotalSize != 1000 {
		t.Errorf("unexpected plan %+v", plan)
	}
	if plan.ContentRange != "" {
		t.Errorf("full plan should carry no Content-Range, got %q", plan.ContentRange)
	}
}

func TestPlanExplicitRange(t *testing.T) {
	svc := NewStreamService()

	plan, err := svc.Plan(1000, "bytes=0-99")
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if !plan.Partial {
		t.Error("expected partial plan")
	}
	if plan.Start != 0 || plan.Length != 100 {
		t.Errorf("expected start=0 length=100, got start=%d length=%d", plan.Start, plan.Length)
	}
	if plan.ContentRange != "bytes 0-99/1000" {
		t.Errorf("unexpected Content-Range %q", plan.ContentRange)
	}
}

func TestPlanOpenEndedRangeRunsToLastByte(t *testing.T) {
	svc := NewStreamService()

	plan, err := svc.Plan(1000, "bytes=500-")
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if plan.Start != 500 || plan.Length != 500 {
		t.Errorf("expected start=500 length=500, got start=%d length=%d", plan.Start, plan.Length)
	}
	if plan.ContentRange != "bytes 500-999/1000" {
		t.Errorf("unexpected Content-Range %q", plan.ContentRange)
	}
}

func TestPlanSingleByteRange(t *testing.T) {
	svc := NewStreamService()

	plan, err := svc.Plan(1000, "bytes=999-999")
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if plan.Start != 999 || plan.Length != 1 {
		t.Errorf("expected start=999 length=1, got start=%d length=%d", plan.Start, plan.Length)
	}
}

func TestPlanRejectsOutOfBoundsRanges(t *testing.T) {
	svc := NewStreamService()

	cases := []string{
		"bytes=1000-",     // start == size
		"bytes=1500-1600", // start > size
		"bytes=0-1000",    // end == size
		"bytes=500-200",   // start > end
	}
	for _, header := range cases {
		_, err := svc.Plan(1000, header)
		assertRangeNotSatisfiable(t, err)
	}
}

func TestPlanRejectsMalformedHeaders(t *testing.T) {
	svc := NewStreamService()

	cases := []string{
		"bytes=-100",    // 后缀形式，起始偏移缺失
		"bytes=abc-200", // 非数字
		"bytes=100",     // 缺少分隔符
		"items=0-99",    // 非bytes单位
		"0-99",          // 缺少单位前缀
	}
	for _, header := range cases {
		_, err := svc.Plan(1000, header)
		assertRangeNotSatisfiable(t, err)
	}
}

// 相邻两段请求应无缝覆盖整个对象
func TestPlanAdjacentRangesReconstructObject(t *testing.T) {
	svc := NewStreamService()
	const size = int64(1000)
	const split = int64(400)

	first, err := svc.Plan(size, "bytes=0-399")
	if err != nil {
		t.Fatalf("first Plan failed: %v", err)
	}
	second, err := svc.Plan(size, "bytes=400-")
	if err != nil {
		t.Fatalf("second Plan failed: %v", err)
	}

	if first.Start != 0 || first.Length != split {
		t.Errorf("first segment start=%d length=%d", first.Start, first.Length)
	}
	if second.Start != split || first.Length+second.Length != size {
		t.Errorf("segments do not cover the object: %d + %d != %d", first.Length, second.Length, size)
	}
}
