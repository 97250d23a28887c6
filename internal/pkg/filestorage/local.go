package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/dkoval/postium/internal/pkg/logger"
)

// allowed image extensions for post uploads
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// LocalStorage handles saving uploaded files to the local filesystem.
type LocalStorage struct {
	basePath string // root directory where files are stored
	baseURL  string // base URL under which stored files are served
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
// Returned file references are URL paths under baseURL.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// SaveImage stores an uploaded image under the given subdirectory and returns
// the URL path it will be served from. A nil fileHeader is not an error; it
// means no file was uploaded and an empty path is returned.
func (ls *LocalStorage) SaveImage(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if fileHeader == nil {
		return "", nil
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !imageExtensions[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dirPath := ls.basePath
	if subPath != "" {
		dirPath = filepath.Join(ls.basePath, subPath)
		if err := os.MkdirAll(dirPath, os.ModePerm); err != nil {
			return "", fmt.Errorf("failed to create subdirectory: %w", err)
		}
	}

	// Random name avoids collisions and hides the original filename.
	storedName := uuid.New().String() + ext
	fullPath := filepath.Join(dirPath, storedName)

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	logger.Debug().Str("file", fullPath).Msg("Stored uploaded image")
	return ls.baseURL + "/" + path.Join(subPath, storedName), nil
}

// Delete removes a previously stored file given its URL path. Unknown paths
// are ignored.
func (ls *LocalStorage) Delete(urlPath string) error {
	rel := strings.TrimPrefix(urlPath, ls.baseURL+"/")
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" {
		return nil
	}

	fullPath := filepath.Join(ls.basePath, filepath.FromSlash(rel))
	if !strings.HasPrefix(fullPath, filepath.Clean(ls.basePath)) {
		return fmt.Errorf("path %q escapes storage root", urlPath)
	}

	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

// BasePath returns the storage root directory on disk.
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}
