package api

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
)

// ContentSeparator joins course segments in the text view.
const ContentSeparator = "\n\n---\n\n"

// Content is the indexed course material held by the backend.
type Content struct {
	CourseData []string `json:"course_data"`
	// Raw is the response body as received, for the JSON view.
	Raw json.RawMessage `json:"-"`
}

// Text joins the segments for display.
func (c Content) Text() string {
	return strings.Join(c.CourseData, ContentSeparator)
}

// PrettyJSON renders the raw response indented.
func (c Content) PrettyJSON() (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, c.Raw, "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// FileContent fetches the uploaded course content. A non-2xx response or an empty
// segment list yields ErrNoContent.
func (c *Client) FileContent(ctx context.Context) (Content, error) {
	resp, err := c.getJSON(ctx, "/api/file-content")
	if err != nil {
		return Content{}, err
	}
	if !resp.ok() {
		return Content{}, ErrNoContent
	}
	var content Content
	if err := decodeBody(resp, &content); err != nil {
		return Content{}, err
	}
	if len(content.CourseData) == 0 {
		return Content{}, ErrNoContent
	}
	content.Raw = json.RawMessage(resp.body)
	return content, nil
}
