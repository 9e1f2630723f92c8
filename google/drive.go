package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const (
	driveBaseURL = "https://www.googleapis.com"
	folderMIME   = "application/vnd.google-apps.folder"
	jsonMIMEUTF8 = "application/json; charset=UTF-8"
)

// DriveClient wraps the Drive v3 calls the app needs: folder creation,
// resumable file upload and media download, all inside one shared drive.
type DriveClient struct {
	httpClient     *http.Client
	baseURL        string
	parentFolderID string
	driveID        string
}

// NewDriveClient creates a client over an authenticated HTTP client.
// parentFolderID and driveID locate the shared drive folder every cat
// folder is created under.
func NewDriveClient(hc *http.Client, parentFolderID, driveID string) *DriveClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &DriveClient{
		httpClient:     hc,
		baseURL:        driveBaseURL,
		parentFolderID: parentFolderID,
		driveID:        driveID,
	}
}

// SetBaseURL redirects API calls, used by tests.
func (c *DriveClient) SetBaseURL(u string) {
	c.baseURL = u
}

type fileResource struct {
	ID string `json:"id"`
}

// CreateFolder creates a folder named after the cat under the
// configured parent folder and returns its id.
func (c *DriveClient) CreateFolder(ctx context.Context, name string) (string, error) {
	meta := map[string]any{
		"name":     name,
		"mimeType": folderMIME,
		"parents":  []string{c.parentFolderID},
		"driveId":  c.driveID,
	}
	body, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}

	u := c.baseURL + "/drive/v3/files?supportsAllDrives=true&fields=id"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", jsonMIMEUTF8)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("drive create folder: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", apiError("drive create folder", resp)
	}

	var file fileResource
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return "", fmt.Errorf("drive create folder: decode: %w", err)
	}
	return file.ID, nil
}

// Upload streams a file into the given folder using a resumable upload
// session, suited to large binary payloads, and returns the file id.
func (c *DriveClient) Upload(ctx context.Context, folderID, name, mimeType string, r io.Reader) (string, error) {
	sessionURL, err := c.initiateUpload(ctx, folderID, name, mimeType)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, sessionURL, r)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mimeType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("drive upload: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", apiError("drive upload", resp)
	}

	var file fileResource
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return "", fmt.Errorf("drive upload: decode: %w", err)
	}
	return file.ID, nil
}

// initiateUpload opens a resumable session and returns its URL.
func (c *DriveClient) initiateUpload(ctx context.Context, folderID, name, mimeType string) (string, error) {
	meta := map[string]any{
		"name":    name,
		"parents": []string{folderID},
	}
	body, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}

	u := c.baseURL + "/upload/drive/v3/files?uploadType=resumable&supportsAllDrives=true&fields=id"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", jsonMIMEUTF8)
	req.Header.Set("X-Upload-Content-Type", mimeType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("drive initiate upload: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", apiError("drive initiate upload", resp)
	}

	sessionURL := resp.Header.Get("Location")
	if sessionURL == "" {
		return "", fmt.Errorf("drive initiate upload: missing session location")
	}
	return sessionURL, nil
}

// Download fetches a file's binary content. The caller must close the
// returned stream.
func (c *DriveClient) Download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	u := fmt.Sprintf("%s/drive/v3/files/%s?alt=media&supportsAllDrives=true",
		c.baseURL, url.PathEscape(fileID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("drive download: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, apiError("drive download", resp)
	}
	return resp.Body, nil
}
