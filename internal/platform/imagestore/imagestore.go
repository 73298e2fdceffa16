// Package imagestore holds uploaded radiographs for the workstation. It
// validates the upload contract (PNG/JPEG only, bounded size), stores image
// bytes in memory, and serves them back under a stable reference URL.
package imagestore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var (
	ErrNotFound        = errors.New("image not found")
	ErrTooLarge        = errors.New("file size exceeds 10MB limit")
	ErrUnsupportedType = errors.New("unsupported file type, only PNG and JPEG are allowed")
)

// MaxUploadSize is the maximum accepted image size in bytes (10 MiB).
const MaxUploadSize = 10 * 1024 * 1024

// AllowedContentTypes lists the accepted upload MIME types.
var AllowedContentTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/jpg":  true,
}

// Metadata describes a stored image.
type Metadata struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Hash        string    `json:"hash"`
	CreatedAt   time.Time `json:"created_at"`
}

// URL returns the path under which the image is served.
func (m *Metadata) URL() string {
	return "/api/v1/images/" + m.ID
}

// Store is an in-memory image store safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	maxSize int64
	images  map[string]*storedImage
}

type storedImage struct {
	metadata Metadata
	content  []byte
}

// NewStore returns a Store with the given size cap; maxSize <= 0 selects
// the default 10 MiB.
func NewStore(maxSize int64) *Store {
	if maxSize <= 0 {
		maxSize = MaxUploadSize
	}
	return &Store{
		maxSize: maxSize,
		images:  make(map[string]*storedImage),
	}
}

// Put validates and stores an uploaded image, returning its metadata. The
// content type must be PNG or JPEG and the payload must fit the size cap;
// violations are reported through the package sentinels so callers can
// surface a per-item error without touching any other state.
func (s *Store) Put(_ context.Context, fileName, contentType string, content io.Reader) (*Metadata, error) {
	if !AllowedContentTypes[contentType] {
		return nil, ErrUnsupportedType
	}

	data, err := io.ReadAll(io.LimitReader(content, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, ErrTooLarge
	}

	h := sha256.Sum256(data)
	meta := Metadata{
		ID:          uuid.New().String(),
		FileName:    fileName,
		ContentType: contentType,
		Size:        int64(len(data)),
		Hash:        fmt.Sprintf("%x", h),
		CreatedAt:   time.Now().UTC(),
	}

	s.mu.Lock()
	s.images[meta.ID] = &storedImage{metadata: meta, content: data}
	s.mu.Unlock()

	out := meta // copy
	return &out, nil
}

// Get returns a reader over the image content and its metadata.
func (s *Store) Get(_ context.Context, id string) (io.ReadCloser, *Metadata, error) {
	s.mu.RLock()
	img, ok := s.images[id]
	s.mu.RUnlock()

	if !ok {
		return nil, nil, ErrNotFound
	}

	meta := img.metadata // copy
	return io.NopCloser(bytes.NewReader(img.content)), &meta, nil
}

// Delete removes a stored image. Deleting an unknown id is a no-op.
func (s *Store) Delete(_ context.Context, id string) {
	s.mu.Lock()
	delete(s.images, id)
	s.mu.Unlock()
}

// Len returns the number of stored images.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.images)
}

// Handler serves stored images over HTTP.
type Handler struct {
	store *Store
}

// NewHandler creates a Handler for the given store.
func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes mounts the image route on the supplied group.
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/images/:id", h.handleGet)
}

func (h *Handler) handleGet(c echo.Context) error {
	rc, meta, err := h.store.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	defer rc.Close()

	return c.Stream(http.StatusOK, meta.ContentType, rc)
}
