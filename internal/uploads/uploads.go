package uploads

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
	"golang.org/x/sys/unix"

	"reclaim/internal/config"
	"reclaim/internal/items"
	"reclaim/internal/services"
)

// Store persists submitted item images on local disk. References handed out
// by Save are bare filenames; the owning directory stays a Store concern so
// the data directory can move without touching stored rows.
type Store struct {
	dir          string
	maxBytes     int64
	minFreeBytes int64
}

// New prepares the uploads directory and returns a Store enforcing the
// configured size and free-space limits.
func New(cfg *config.Config) (*Store, error) {
	dir := cfg.Paths.UploadsDir
	if strings.TrimSpace(dir) == "" {
		return nil, services.Wrap(services.ErrValidation, "uploads", "init", "uploads directory not configured", nil)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrStore, "uploads", "init", "create uploads directory", err)
	}
	return &Store{
		dir:          dir,
		maxBytes:     cfg.Uploads.MaxBytes,
		minFreeBytes: cfg.Uploads.MinFreeBytes,
	}, nil
}

// Save validates and writes an image, returning its stored reference. The
// reference is prefixed with the item kind so a directory listing reads at a
// glance, and carries a random component so concurrent submissions never
// collide.
func (s *Store) Save(kind items.Kind, data []byte) (string, error) {
	if len(data) == 0 {
		return "", services.Wrap(services.ErrValidation, "uploads", "save", "empty image payload", nil)
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return "", services.Wrap(services.ErrValidation, "uploads", "save",
			fmt.Sprintf("image is %d bytes, limit is %d", len(data), s.maxBytes), nil)
	}

	ext, err := sniffImage(data)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "uploads", "save", "unsupported image", err)
	}

	if err := s.checkFreeSpace(); err != nil {
		return "", err
	}

	ref := fmt.Sprintf("%s_%s.%s", kind, uuid.NewString(), ext)
	if err := os.WriteFile(filepath.Join(s.dir, ref), data, 0o644); err != nil {
		return "", services.Wrap(services.ErrStore, "uploads", "save", "write image", err)
	}
	return ref, nil
}

// Path resolves a stored reference to an absolute file path.
func (s *Store) Path(ref string) string {
	return filepath.Join(s.dir, filepath.Base(ref))
}

// Remove deletes a stored image. A missing file is not an error so callers
// can use Remove to unwind a partially completed submission.
func (s *Store) Remove(ref string) error {
	err := os.Remove(s.Path(ref))
	if err != nil && !os.IsNotExist(err) {
		return services.Wrap(services.ErrStore, "uploads", "remove", ref, err)
	}
	return nil
}

func (s *Store) checkFreeSpace() error {
	if s.minFreeBytes <= 0 {
		return nil
	}
	var stat unix.Statfs_t
	if err := unix.Statfs(s.dir, &stat); err != nil {
		return services.Wrap(services.ErrStore, "uploads", "save", "statfs uploads directory", err)
	}
	free := int64(stat.Bavail) * int64(stat.Bsize)
	if free < s.minFreeBytes {
		return services.Wrap(services.ErrStore, "uploads", "save",
			fmt.Sprintf("only %d bytes free, need %d", free, s.minFreeBytes), nil)
	}
	return nil
}

// sniffImage confirms the payload decodes as a supported format and returns
// the file extension to store it under. HEIC and HEIF cannot be decoded
// in-process, so they are recognized by their container brand instead.
func sniffImage(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err == nil {
		switch format {
		case "jpeg":
			return "jpg", nil
		case "png", "webp":
			return format, nil
		default:
			return "", fmt.Errorf("format %q not allowed", format)
		}
	}
	if ext, ok := heifBrand(data); ok {
		return ext, nil
	}
	return "", fmt.Errorf("decode image: %w", err)
}

func heifBrand(data []byte) (string, bool) {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return "", false
	}
	switch string(data[8:12]) {
	case "heic", "heix":
		return "heic", true
	case "mif1", "msf1", "heif":
		return "heif", true
	}
	return "", false
}
