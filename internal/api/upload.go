package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"regexp"
	"strconv"
)

var paragraphCountPattern = regexp.MustCompile(`共\s*(\d+)\s*個段落`)

// UploadFile is one course file sent to the backend.
type UploadFile struct {
	Name string
	Data []byte
}

// UploadResult is the backend's acknowledgement of an upload.
type UploadResult struct {
	Message string `json:"message"`
	// Paragraphs is the number of indexed paragraphs reported in Message, or 0.
	Paragraphs int `json:"-"`
}

// Upload sends course files as multipart field "files".
func (c *Client) Upload(ctx context.Context, files []UploadFile) (UploadResult, error) {
	if len(files) == 0 {
		return UploadResult{}, fmt.Errorf("no files to upload")
	}
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, file := range files {
		part, err := writer.CreateFormFile("files", file.Name)
		if err != nil {
			return UploadResult{}, fmt.Errorf("add %s: %w", file.Name, err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return UploadResult{}, fmt.Errorf("add %s: %w", file.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return UploadResult{}, fmt.Errorf("finish upload body: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/upload", writer.FormDataContentType(), buf.Bytes())
	if err != nil {
		return UploadResult{}, err
	}
	if !resp.ok() {
		return UploadResult{}, decodeHTTPError(resp, "upload failed")
	}
	var result UploadResult
	if err := decodeBody(resp, &result); err != nil {
		return UploadResult{}, err
	}
	result.Paragraphs = ParagraphCount(result.Message)
	return result, nil
}

// ParagraphCount extracts the "共 N 個段落" paragraph count from an upload message.
func ParagraphCount(message string) int {
	match := paragraphCountPattern.FindStringSubmatch(message)
	if match == nil {
		return 0
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return n
}
