package assistant

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"ragclass/internal/api"
)

// UploadOutcome is the result of uploading course files.
type UploadOutcome struct {
	Result api.UploadResult
	// Content is the refreshed course content, when the backend has any.
	Content    api.Content
	HasContent bool
}

// Upload reads the files at paths, uploads them, and refreshes the content preview.
func (a *Assistant) Upload(ctx context.Context, paths []string) (UploadOutcome, error) {
	if len(paths) == 0 {
		return UploadOutcome{}, fmt.Errorf("no files selected")
	}
	files := make([]api.UploadFile, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return UploadOutcome{}, fmt.Errorf("read %s: %w", path, err)
		}
		files = append(files, api.UploadFile{Name: filepath.Base(path), Data: data})
	}
	a.logger.Printf("upload: sending %d file(s)", len(files))
	result, err := a.backend.Upload(ctx, files)
	if err != nil {
		return UploadOutcome{}, fmt.Errorf("upload: %w", err)
	}
	outcome := UploadOutcome{Result: result}
	content, err := a.backend.FileContent(ctx)
	switch {
	case err == nil:
		outcome.Content = content
		outcome.HasContent = true
	case errors.Is(err, api.ErrNoContent):
		a.logger.Printf("upload: backend reports no content yet")
	default:
		return outcome, fmt.Errorf("refresh content: %w", err)
	}
	return outcome, nil
}

// Content returns the indexed course content.
func (a *Assistant) Content(ctx context.Context) (api.Content, error) {
	content, err := a.backend.FileContent(ctx)
	if err != nil {
		if errors.Is(err, api.ErrNoContent) {
			return api.Content{}, ErrNoCourseContent
		}
		return api.Content{}, fmt.Errorf("load content: %w", err)
	}
	return content, nil
}
