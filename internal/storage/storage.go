// Package storage keeps uploaded files (avatars, resumes, logos, blog images)
// and hands back the public URL they are served from.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxUploadSize caps a single file.
const MaxUploadSize = 10 << 20

var (
	ErrTooLarge    = errors.New("file too large (max 10MB)")
	ErrUnsupported = errors.New("unsupported file type")
)

var imageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Sniffed type to stored extension for resumes. Word files have no reliable
// signature, so the client's extension decides between the two container kinds.
var documentTypes = map[string]map[string]string{
	"application/pdf":          {"": ".pdf"},
	"application/zip":          {".docx": ".docx"},
	"application/octet-stream": {".doc": ".doc"},
}

// extensionFor returns the extension a file is stored under, or false when
// folder does not accept the sniffed content. Unknown folders take images.
func extensionFor(folder, sniffed, clientExt string) (string, bool) {
	sniffed, _, _ = strings.Cut(sniffed, ";")
	if folder != "resumes" {
		ext, ok := imageTypes[sniffed]
		return ext, ok
	}
	byExt, ok := documentTypes[sniffed]
	if !ok {
		return "", false
	}
	if ext, ok := byExt[""]; ok {
		return ext, true
	}
	ext, ok := byExt[clientExt]
	return ext, ok
}

// Store saves an uploaded file under folder and returns its public URL.
type Store interface {
	Save(ctx context.Context, file *multipart.FileHeader, folder string) (string, error)
}

// Local writes files beneath Dir; they are served by the router under /uploads.
type Local struct {
	Dir     string
	BaseURL string
}

var _ Store = (*Local)(nil)

func NewLocal(dir, baseURL string) *Local {
	return &Local{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

// Save stores fh when its content matches what folder accepts. The stored name
// is random and its extension comes from the sniffed type, never the client.
func (l *Local) Save(ctx context.Context, fh *multipart.FileHeader, folder string) (string, error) {
	if fh.Size > MaxUploadSize {
		return "", ErrTooLarge
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]

	folder = filepath.Base(filepath.Clean("/" + folder))
	ext, ok := extensionFor(folder, http.DetectContentType(head), strings.ToLower(filepath.Ext(fh.Filename)))
	if !ok {
		return "", ErrUnsupported
	}

	dir := filepath.Join(l.Dir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create uploads dir: %w", err)
	}
	name := uuid.NewString() + ext
	target := filepath.Join(dir, name)
	dst, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	written, err := io.Copy(dst, io.LimitReader(io.MultiReader(bytes.NewReader(head), src), MaxUploadSize+1))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err == nil && written > MaxUploadSize {
		err = ErrTooLarge
	}
	if err != nil {
		os.Remove(target)
		if errors.Is(err, ErrTooLarge) {
			return "", err
		}
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return l.BaseURL + path.Join("/uploads", folder, name), nil
}
