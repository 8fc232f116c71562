package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/scope"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/storage"
	"github.com/google/uuid"
)

var (
	ErrReportNotFound = errors.New("archived report not found")
	ErrInvalidOwner   = errors.New("invalid archive owner")
)

var allowedReportExts = []string{".pdf", ".xlsx", ".csv"}

type FileService interface {
	// ArchiveReport stores a rendered report for owner and returns its public URL
	ArchiveReport(ctx context.Context, owner scope.Actor, generatedAt time.Time, filename string, data []byte) (string, error)

	// OpenReport retrieves an archived report by key. Only the owner and admins can read it.
	OpenReport(ctx context.Context, actor scope.Actor, key string) (io.ReadCloser, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// ArchiveReport stores data under "<day>/<owner>/<uuid>-<filename>"
func (s *fileServiceImpl) ArchiveReport(ctx context.Context, owner scope.Actor, generatedAt time.Time, filename string, data []byte) (string, error) {
	// Validate file extension
	ext := strings.ToLower(filepath.Ext(filename))

	isValid := false
	for _, allowed := range allowedReportExts {
		if ext == allowed {
			isValid = true
			break
		}
	}
	if !isValid {
		return "", fmt.Errorf("invalid report file type: %s", ext)
	}

	ownerID := owner.UserID
	if ownerID == "" || ownerID == "." || ownerID == ".." || strings.ContainsAny(ownerID, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidOwner, ownerID)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate archive id: %w", err)
	}

	key, err := s.storage.Put(ctx, storage.ArchiveKey(generatedAt, ownerID, id.String()+"-"+filename), data)
	if err != nil {
		return "", fmt.Errorf("failed to archive report: %w", err)
	}

	return s.storage.URL(key), nil
}

func (s *fileServiceImpl) OpenReport(ctx context.Context, actor scope.Actor, key string) (io.ReadCloser, error) {
	owner, ok := storage.ArchiveOwner(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrReportNotFound, key)
	}
	// not found rather than forbidden, so foreign keys cannot be probed
	if actor.Role != user.RoleAdmin && owner != actor.UserID {
		return nil, fmt.Errorf("%w: %s", ErrReportNotFound, key)
	}

	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReportNotFound, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrReportNotFound, key)
	}
	return s.storage.Open(ctx, key)
}

// ReportFilename returns the name a report was exported under, without its archive id.
func ReportFilename(key string) string {
	name := path.Base(key)
	if len(name) > 37 && name[36] == '-' {
		if _, err := uuid.Parse(name[:36]); err == nil {
			return name[37:]
		}
	}
	return name
}
