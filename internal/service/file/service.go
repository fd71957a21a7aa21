package file

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/storeshift/hris-backend-go/internal/pkg/storage"
)

// Attachment is a stored upload.
type Attachment struct {
	Key      string
	URL      string
	FileName string
}

type FileService interface {
	// UploadLeaveAttachment stores a leave request attachment under leave/<employeeID>/
	UploadLeaveAttachment(ctx context.Context, employeeID string, file io.Reader, filename string) (Attachment, error)

	DeleteFile(ctx context.Context, key string) error
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadLeaveAttachment implements FileService. The original file name is
// kept for display only; the stored key is random.
func (s *fileServiceImpl) UploadLeaveAttachment(ctx context.Context, employeeID string, file io.Reader, filename string) (Attachment, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	key := path.Join("leave", employeeID, uuid.New().String()+ext)

	stored, err := s.storage.Put(ctx, file, key)
	if err != nil {
		return Attachment{}, fmt.Errorf("failed to upload leave attachment: %w", err)
	}

	return Attachment{
		Key:      stored,
		URL:      s.storage.URL(stored),
		FileName: filepath.Base(filename),
	}, nil
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, key)
}
