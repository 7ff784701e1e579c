package media

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MaxFileSize   = 20 * 1024 * 1024 // 20 MB
	StaticURLBase = "/static/uploads"
)

var allowedMimeTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"video/mp4":  ".mp4",
	"video/webm": ".webm",
}

// Service stores review photos and videos under baseDir, partitioned by
// day, and serves them from StaticURLBase.
type Service struct {
	repo    Repository
	baseDir string
	now     func() time.Time
}

func NewService(repo Repository, baseDir string) *Service {
	return &Service{repo: repo, baseDir: baseDir, now: time.Now}
}

// Save writes the file and records it. The file is removed again when the
// record cannot be written.
func (s *Service) Save(ctx context.Context, userID int64, fh *multipart.FileHeader) (*Upload, error) {
	if fh.Size == 0 {
		return nil, ErrEmptyFile
	}
	if fh.Size > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	mimeType := strings.Split(http.DetectContentType(buf[:n]), ";")[0]
	ext, ok := allowedMimeTypes[mimeType]
	if !ok {
		return nil, ErrInvalidMimeType
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	now := s.now()
	relDir := fmt.Sprintf("%d/%02d/%02d", now.Year(), now.Month(), now.Day())
	absDir := filepath.Join(s.baseDir, relDir)
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	id := uuid.NewString()
	filename := id + ext
	absPath := filepath.Join(absDir, filename)
	dst, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("write file: %w", err)
	}

	relPath := filepath.ToSlash(filepath.Join(relDir, filename))
	u := &Upload{
		ID:           id,
		UserID:       userID,
		OriginalName: filepath.Base(fh.Filename),
		FilePath:     relPath,
		FileURL:      StaticURLBase + "/" + relPath,
		MimeType:     mimeType,
		Size:         fh.Size,
		CreatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("record upload: %w", err)
	}
	return u, nil
}
