package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func newTestLocalStorage(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage failed: %v", err)
	}
	return s.(*LocalStorage)
}

func writeTempFile(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.mp4")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestLocalStoragePutAndSize(t *testing.T) {
	s := newTestLocalStorage(t)
	ctx := context.Background()
	src := writeTempFile(t, []byte("0123456789"))

	if _, err := s.Put(ctx, src, "video.mp4", "video/mp4"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	size, ok, err := s.Size(ctx, "video.mp4")
	if err != nil {
		t.Fatalf("Size failed: %v", err)
	}
	if !ok || size != 10 {
		t.Errorf("Size = %d ok=%v, want 10 true", size, ok)
	}
}

func TestLocalStorageSizeMissingObject(t *testing.T) {
	s := newTestLocalStorage(t)

	size, ok, err := s.Size(context.Background(), "absent.mp4")
	if err != nil {
		t.Fatalf("missing object should not error: %v", err)
	}
	if ok || size != 0 {
		t.Errorf("Size = %d ok=%v, want 0 false", size, ok)
	}
}

func TestLocalStorageReadRange(t *testing.T) {
	s := newTestLocalStorage(t)
	ctx := context.Background()
	src := writeTempFile(t, []byte("abcdefghij"))
	if _, err := s.Put(ctx, src, "video.mp4", ""); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	rc, err := s.ReadRange(ctx, "video.mp4", 2, 5)
	if err != nil {
		t.Fatalf("ReadRange failed: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "cdefg" {
		t.Errorf("ReadRange = %q, want %q", data, "cdefg")
	}
}

// 两段相邻Range读拼接后应还原完整对象
func TestLocalStorageAdjacentRangesReconstruct(t *testing.T) {
	s := newTestLocalStorage(t)
	ctx := context.Background()
	content := []byte("the quick brown fox jumps over the lazy dog")
	src := writeTempFile(t, content)
	if _, err := s.Put(ctx, src, "video.mp4", ""); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	split := int64(17)
	total := int64(len(content))

	first, err := s.ReadRange(ctx, "video.mp4", 0, split)
	if err != nil {
		t.Fatalf("first ReadRange failed: %v", err)
	}
	head, _ := io.ReadAll(first)
	first.Close()

	second, err := s.ReadRange(ctx, "video.mp4", split, total-split)
	if err != nil {
		t.Fatalf("second ReadRange failed: %v", err)
	}
	rest, _ := io.ReadAll(second)
	second.Close()

	if string(head)+string(rest) != string(content) {
		t.Errorf("reconstructed %q, want %q", string(head)+string(rest), content)
	}
}

func TestLocalStorageDelete(t *testing.T) {
	s := newTestLocalStorage(t)
	ctx := context.Background()
	src := writeTempFile(t, []byte("x"))
	if _, err := s.Put(ctx, src, "video.mp4", ""); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	existed, err := s.Delete(ctx, "video.mp4")
	if err != nil || !existed {
		t.Fatalf("Delete = %v, %v; want true, nil", existed, err)
	}

	existed, err = s.Delete(ctx, "video.mp4")
	if err != nil {
		t.Fatalf("second Delete should not error: %v", err)
	}
	if existed {
		t.Error("second Delete should report absence")
	}
}

func TestLocalStorageRejectsPathEscape(t *testing.T) {
	s := newTestLocalStorage(t)
	ctx := context.Background()

	// filepath.Base剥离目录成分后键不应落在存储目录之外
	if _, _, err := s.Size(ctx, "../../etc/passwd"); err != nil {
		t.Fatalf("escaped key should resolve to a plain missing file: %v", err)
	}
	if _, err := s.resolve(".."); err == nil {
		t.Error("bare .. must be rejected")
	}
}

func TestLocalStorageGetRoundTrip(t *testing.T) {
	s := newTestLocalStorage(t)
	ctx := context.Background()
	src := writeTempFile(t, []byte("payload"))
	if _, err := s.Put(ctx, src, "video.mp4", ""); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	dst := filepath.Join(t.TempDir(), "out", "copy.mp4")
	if err := s.Get(ctx, "video.mp4", dst); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read copy: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("Get copied %q, want %q", data, "payload")
	}
}
