package validation

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// UploadRule describes what an upload may contain. Content is sniffed from
// the first bytes, so a renamed file with the wrong payload is rejected.
type UploadRule struct {
	Name       string
	MimeTypes  map[string]string // sniffed type -> canonical extension
	Extensions map[string]bool
	MaxSize    int64
}

// ProgressPhoto is the rule for the daily photo task.
var ProgressPhoto = UploadRule{
	Name: "progress photo",
	MimeTypes: map[string]string{
		"image/jpeg": ".jpg",
		"image/png":  ".png",
		"image/webp": ".webp",
	},
	Extensions: map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
	},
	MaxSize: 10 << 20,
}

// ValidateUpload checks size, extension and sniffed content type, and
// returns the sniffed type. The file is rewound afterwards when it can seek.
func ValidateUpload(header *multipart.FileHeader, rule UploadRule) (string, error) {
	if header == nil {
		return "", fmt.Errorf("%s is required", rule.Name)
	}
	if header.Size <= 0 {
		return "", fmt.Errorf("%s is empty", rule.Name)
	}
	if header.Size > rule.MaxSize {
		return "", fmt.Errorf("%s too large: maximum size is %d MB", rule.Name, rule.MaxSize>>20)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !rule.Extensions[ext] {
		return "", fmt.Errorf("%s has unsupported extension %q", rule.Name, ext)
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", rule.Name, err)
	}
	defer func() { _ = file.Close() }()

	// DetectContentType never looks past 512 bytes.
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("failed to read %s: %w", rule.Name, err)
	}

	if seeker, ok := file.(io.Seeker); ok {
		_, err = seeker.Seek(0, io.SeekStart)
		if err != nil {
			return "", fmt.Errorf("failed to rewind %s: %w", rule.Name, err)
		}
	}

	detected := http.DetectContentType(head[:n])
	if _, ok := rule.MimeTypes[detected]; !ok {
		return "", fmt.Errorf("%s has unsupported content type %s", rule.Name, detected)
	}
	return detected, nil
}
