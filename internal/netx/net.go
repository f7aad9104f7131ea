// Package netx moves object content over presigned URLs. The vault API
// only hands out URLs; the bytes themselves go straight to object storage.
package netx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// UploadToPresignedURL PUTs file content to a presigned URL.
func UploadToPresignedURL(ctx context.Context, url string, file []byte, mimeType string) error {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(file))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mimeType)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}

// DownloadFromPresignedURL GETs content from a presigned URL and streams it
// into w.
func DownloadFromPresignedURL(ctx context.Context, url string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}
	return io.Copy(w, resp.Body)
}
