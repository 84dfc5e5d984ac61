// Package image loads images from files, URLs and stdin and converts them
// into pixel buffers for analysis.
package image

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	_ "github.com/gen2brain/avif" // Register AVIF format
	_ "golang.org/x/image/webp"   // Register WebP format

	"github.com/jmylchreest/prism/internal/analysis"
	httputil "github.com/jmylchreest/prism/internal/util/http"
)

// StdinSource is the source name that reads image bytes from standard input.
const StdinSource = "-"

// DefaultMaxBytes bounds how much is read from stdin or a URL.
const DefaultMaxBytes int64 = 32 << 20

// DefaultMaxPixels bounds the decoded width*height.
const DefaultMaxPixels int64 = 64 << 20

var (
	// ErrTooLarge is returned when an image exceeds the configured byte limit.
	ErrTooLarge = errors.New("image exceeds size limit")

	// ErrTooManyPixels is returned when an image header declares more pixels
	// than the configured limit.
	ErrTooManyPixels = errors.New("image exceeds pixel limit")
)

// Loader handles loading images from various sources.
type Loader interface {
	// Load loads an image from the given source.
	Load(ctx context.Context, src string) (image.Image, error)
}

// SmartLoader loads images from local files, HTTP(S) URLs and stdin.
type SmartLoader struct {
	// Stdin is read when the source is "-". Defaults to os.Stdin.
	Stdin io.Reader

	// HTTPTimeout bounds URL fetches. Zero uses the fetcher's default.
	HTTPTimeout time.Duration

	// MaxBytes bounds stdin and URL payloads. Zero uses DefaultMaxBytes.
	MaxBytes int64

	// MaxPixels bounds decoded images. Zero uses DefaultMaxPixels.
	MaxPixels int64
}

// NewSmartLoader creates a new SmartLoader instance.
func NewSmartLoader() *SmartLoader {
	return &SmartLoader{Stdin: os.Stdin}
}

// IsURL reports whether src is an HTTP(S) URL.
func IsURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Load loads an image from a local file path, an HTTP(S) URL or stdin.
func (l *SmartLoader) Load(ctx context.Context, src string) (image.Image, error) {
	switch {
	case src == "":
		return nil, fmt.Errorf("image path cannot be empty")
	case src == StdinSource:
		return l.loadFromStdin()
	case IsURL(src):
		return l.loadFromURL(ctx, src)
	default:
		return loadFromFile(src, l.MaxPixels)
	}
}

func (l *SmartLoader) maxBytes() int64 {
	if l.MaxBytes > 0 {
		return l.MaxBytes
	}
	return DefaultMaxBytes
}

func (l *SmartLoader) loadFromStdin() (image.Image, error) {
	in := l.Stdin
	if in == nil {
		in = os.Stdin
	}
	data, err := ReadLimited(in, l.maxBytes())
	if err != nil {
		return nil, fmt.Errorf("failed to read image from stdin: %w", err)
	}
	return DecodeBytes(data, l.MaxPixels)
}

// loadFromURL fetches and decodes an image from an HTTP(S) URL.
func (l *SmartLoader) loadFromURL(ctx context.Context, url string) (image.Image, error) {
	data, err := httputil.Fetch(ctx, url, httputil.FetchOptions{
		Timeout:  l.HTTPTimeout,
		MaxBytes: l.maxBytes(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
	}
	return DecodeBytes(data, l.MaxPixels)
}

func loadFromFile(path string, maxPixels int64) (image.Image, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	file, err := os.Open(path) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	return Decode(file, maxPixels)
}

// Decode decodes any registered image format. The header is read first and
// images larger than maxPixels (DefaultMaxPixels when <= 0) are rejected
// before their pixels are allocated. Failures are returned as
// *analysis.DecodeError.
func Decode(r io.ReadSeeker, maxPixels int64) (image.Image, error) {
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}

	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return nil, &analysis.DecodeError{Op: decodeOp(format), Err: err}
	}
	if cfg.Width > 0 && cfg.Height > 0 && int64(cfg.Width) > maxPixels/int64(cfg.Height) {
		return nil, &analysis.DecodeError{
			Op:  format,
			Err: fmt.Errorf("%w: %dx%d is more than %d pixels", ErrTooManyPixels, cfg.Width, cfg.Height, maxPixels),
		}
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind image: %w", err)
	}
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, &analysis.DecodeError{Op: decodeOp(format), Err: err}
	}
	return img, nil
}

func decodeOp(format string) string {
	if format == "" {
		return "detect format"
	}
	return format
}

// DecodeBytes decodes an in-memory image.
func DecodeBytes(data []byte, maxPixels int64) (image.Image, error) {
	return Decode(bytes.NewReader(data), maxPixels)
}

// ReadLimited reads all of r, failing with ErrTooLarge beyond limit bytes.
func ReadLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return data, nil
}

// SupportedImageExtensions returns a list of supported image file extensions.
func SupportedImageExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".avif"}
}

// IsImageFile checks if a file has a supported image extension.
func IsImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(SupportedImageExtensions(), ext)
}

// ParseCrop parses "x,y,w,h" into a rectangle. An empty string means no crop
// and returns the zero rectangle.
func ParseCrop(s string) (image.Rectangle, error) {
	if strings.TrimSpace(s) == "" {
		return image.Rectangle{}, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("invalid crop %q: want x,y,w,h", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("invalid crop %q: %w", s, err)
		}
		v[i] = n
	}
	if v[0] < 0 || v[1] < 0 || v[2] <= 0 || v[3] <= 0 {
		return image.Rectangle{}, fmt.Errorf("invalid crop %q: offsets must be >= 0 and sizes > 0", s)
	}
	return image.Rect(v[0], v[1], v[0]+v[2], v[1]+v[3]), nil
}

// ToBuffer converts img to a pixel buffer, cropping to crop when it is
// non-empty.
func ToBuffer(img image.Image, crop image.Rectangle) (analysis.PixelBuffer, error) {
	buf := analysis.FromImage(img)
	if crop.Empty() {
		return buf, nil
	}
	return buf.Crop(crop)
}

// LoadBuffer loads src with l and converts it to a (possibly cropped) pixel
// buffer.
func LoadBuffer(ctx context.Context, l Loader, src string, crop image.Rectangle) (analysis.PixelBuffer, error) {
	img, err := l.Load(ctx, src)
	if err != nil {
		return analysis.PixelBuffer{}, err
	}
	return ToBuffer(img, crop)
}
