package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var supportedExtensions = map[string]bool{
	".mp4":  true,
	".avi":  true,
	".mov":  true,
	".mkv":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".m4v":  true,
	".3gp":  true,
}

// SupportedExtension reports whether the file has a supported video
// extension.
func SupportedExtension(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

func supportedExtensionList() string {
	exts := make([]string, 0, len(supportedExtensions))
	for ext := range supportedExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return strings.Join(exts, ", ")
}

func (p *Pipeline) validate(videoPath string) error {
	info, err := os.Stat(videoPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &ValidationError{Reason: "file does not exist"}
		}
		return &ValidationError{Reason: fmt.Sprintf("cannot stat file: %v", err)}
	}
	if info.IsDir() {
		return &ValidationError{Reason: "path is a directory, not a video file"}
	}

	if !SupportedExtension(videoPath) {
		return &ValidationError{Reason: fmt.Sprintf(
			"unsupported file format %q, supported: %s",
			filepath.Ext(videoPath), supportedExtensionList(),
		)}
	}

	maxBytes := p.cfg.Video.MaxSizeMB * 1024 * 1024
	if info.Size() > maxBytes {
		return &ValidationError{Reason: fmt.Sprintf(
			"video file is too large: %d MB, maximum is %d MB",
			info.Size()/(1024*1024), p.cfg.Video.MaxSizeMB,
		)}
	}

	return nil
}
