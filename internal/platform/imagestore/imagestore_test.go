package imagestore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestPut_AcceptsPNG(t *testing.T) {
	s := NewStore(0)
	payload := bytes.Repeat([]byte{0x89}, 1024*1024) // 1 MiB

	meta, err := s.Put(context.Background(), "chest.png", "image/png", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Size != int64(len(payload)) {
		t.Errorf("expected size %d, got %d", len(payload), meta.Size)
	}
	if meta.Hash == "" {
		t.Error("expected content hash")
	}
	if !strings.HasPrefix(meta.URL(), "/api/v1/images/") {
		t.Errorf("unexpected image URL %s", meta.URL())
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 stored image, got %d", s.Len())
	}
}

func TestPut_RejectsGIF(t *testing.T) {
	s := NewStore(0)

	_, err := s.Put(context.Background(), "anim.gif", "image/gif", strings.NewReader("GIF89a"))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
	if s.Len() != 0 {
		t.Error("rejected upload must not be stored")
	}
}

func TestPut_RejectsOversized(t *testing.T) {
	s := NewStore(0)
	payload := bytes.Repeat([]byte{0xFF}, 11*1024*1024) // 11 MiB

	_, err := s.Put(context.Background(), "big.png", "image/png", bytes.NewReader(payload))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if s.Len() != 0 {
		t.Error("rejected upload must not be stored")
	}
}

func TestGet_RoundTrip(t *testing.T) {
	s := NewStore(0)
	meta, err := s.Put(context.Background(), "lat.jpg", "image/jpeg", strings.NewReader("jpegbytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rc, got, err := s.Get(context.Background(), meta.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close()

	data, _ := io.ReadAll(rc)
	if string(data) != "jpegbytes" {
		t.Errorf("unexpected content %q", data)
	}
	if got.ContentType != "image/jpeg" {
		t.Errorf("unexpected content type %s", got.ContentType)
	}
}

func TestGet_Missing(t *testing.T) {
	s := NewStore(0)
	_, _, err := s.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHandler_ServesImage(t *testing.T) {
	s := NewStore(0)
	meta, _ := s.Put(context.Background(), "pa.png", "image/png", strings.NewReader("pngbytes"))

	e := echo.New()
	NewHandler(s).RegisterRoutes(e.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/images/"+meta.ID, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "pngbytes" {
		t.Errorf("unexpected body %q", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/images/missing", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing image, got %d", rec.Code)
	}
}

func TestDelete_RemovesImage(t *testing.T) {
	s := NewStore(0)
	ctx := context.Background()

	meta, err := s.Put(ctx, "scan.png", "image/png", strings.NewReader("png"))
	if err != nil {
		t.Fatal(err)
	}

	s.Delete(ctx, meta.ID)
	if s.Len() != 0 {
		t.Errorf("expected empty store after delete, got %d", s.Len())
	}
	if _, _, err := s.Get(ctx, meta.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Unknown id is a no-op.
	s.Delete(ctx, "missing")
}
