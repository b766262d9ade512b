// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

const uploadPath = "/deals/media/upload"

// UploadMedia sends a file as multipart form data and returns the Telegram
// file reference the backend stored it under.
func (c *Client) UploadMedia(ctx context.Context, filename string, r io.Reader) (*UploadedMedia, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	var out UploadedMedia
	if err := c.send(ctx, "deals.media.upload", http.MethodPost, uploadPath, &buf, w.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}
