package staging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	domainerrors "agentlists/contexts/list-distribution/list-service/domain/errors"
	"agentlists/contexts/list-distribution/list-service/ports"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// Stager writes uploads into a directory of an afero filesystem.
type Stager struct {
	fs     afero.Fs
	dir    string
	logger *slog.Logger
}

func NewStager(fs afero.Fs, dir string, logger *slog.Logger) *Stager {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if strings.TrimSpace(dir) == "" {
		dir = filepath.Join(os.TempDir(), "agentlists-uploads")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Stager{fs: fs, dir: dir, logger: logger}
}

func (s *Stager) Stage(ctx context.Context, name string, body io.Reader, maxBytes int64) (ports.StagedFile, error) {
	if err := ctx.Err(); err != nil {
		return ports.StagedFile{}, err
	}
	if err := s.fs.MkdirAll(s.dir, 0o750); err != nil {
		return ports.StagedFile{}, err
	}

	ext := strings.ToLower(filepath.Ext(name))
	path := filepath.Join(s.dir, uuid.NewString()+ext)
	file, err := s.fs.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return ports.StagedFile{}, err
	}

	written, copyErr := io.Copy(file, io.LimitReader(body, maxBytes+1))
	closeErr := file.Close()
	staged := ports.StagedFile{Path: path, Size: written}

	if copyErr == nil && written > maxBytes {
		copyErr = domainerrors.ErrFileTooLarge
	}
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		if removeErr := s.fs.Remove(path); removeErr != nil {
			s.logger.Warn("staged upload cleanup failed",
				"event", "list_staging_cleanup_failed",
				"module", "list-distribution/list-service",
				"layer", "adapter",
				"path", path,
				"error", removeErr.Error(),
			)
		}
		var maxErr *http.MaxBytesError
		if errors.As(copyErr, &maxErr) {
			return ports.StagedFile{}, domainerrors.ErrFileTooLarge
		}
		return ports.StagedFile{}, copyErr
	}
	return staged, nil
}

func (s *Stager) Remove(_ context.Context, file ports.StagedFile) error {
	if strings.TrimSpace(file.Path) == "" {
		return nil
	}
	err := s.fs.Remove(file.Path)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Open gives parsers read access to a staged file.
func (s *Stager) Open(file ports.StagedFile) (afero.File, error) {
	return s.fs.Open(file.Path)
}

var _ ports.FileStager = (*Stager)(nil)
