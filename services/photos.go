package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/PMark-est/catshelp/utils"
)

// ErrUnknownExtension marks a photo whose extension has no MIME
// mapping; such uploads are rejected before anything is created.
var ErrUnknownExtension = errors.New("unknown file extension")

// FolderUploader creates folders and streams files into them.
type FolderUploader interface {
	CreateFolder(ctx context.Context, name string) (string, error)
	Upload(ctx context.Context, folderID, name, mimeType string, r io.Reader) (string, error)
}

// Photo is one uploaded image.
type Photo struct {
	Name    string
	Content io.Reader
}

// UploadResult reports the outcome of a single photo upload.
type UploadResult struct {
	Name   string `json:"name"`
	FileID string `json:"id,omitempty"`
	Error  string `json:"error,omitempty"`
}

// PhotoService uploads submitted photos into a per-cat Drive folder.
type PhotoService struct {
	drive FolderUploader
	// await=false detaches the per-file uploads and reports nothing
	// back, trading safety for response latency.
	await bool
}

func NewPhotoService(drive FolderUploader, await bool) *PhotoService {
	return &PhotoService{drive: drive, await: await}
}

// concurrent upload cap per request
const maxParallelUploads = 4

// Ingest creates a folder named after the cat and uploads every photo
// into it. The folder always exists before the first upload starts.
// With await enabled the call returns per-file outcomes once all
// uploads finished; otherwise it returns a nil slice as soon as the
// uploads are issued.
func (s *PhotoService) Ingest(ctx context.Context, catName string, photos []Photo) ([]UploadResult, error) {
	mimes := make([]string, len(photos))
	for i, p := range photos {
		mime, ok := utils.ImageMIMEType(p.Name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownExtension, p.Name)
		}
		mimes[i] = mime
	}

	folderID, err := s.drive.CreateFolder(ctx, catName)
	if err != nil {
		return nil, fmt.Errorf("create folder: %w", err)
	}

	if !s.await {
		batch := uuid.NewString()
		for i := range photos {
			photo, mime := photos[i], mimes[i]
			go func() {
				// The request context ends with the response.
				if _, err := s.drive.Upload(context.Background(), folderID, photo.Name, mime, photo.Content); err != nil {
					if utils.Sugar != nil {
						utils.Sugar.Warnw("photo upload failed", "batch", batch, "file", photo.Name, "error", err)
					}
				}
			}()
		}
		return nil, nil
	}

	results := make([]UploadResult, len(photos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelUploads)
	for i := range photos {
		i := i
		g.Go(func() error {
			id, err := s.drive.Upload(gctx, folderID, photos[i].Name, mimes[i], photos[i].Content)
			if err != nil {
				// Collect per-file failures instead of aborting siblings.
				results[i] = UploadResult{Name: photos[i].Name, Error: err.Error()}
				return nil
			}
			results[i] = UploadResult{Name: photos[i].Name, FileID: id}
			return nil
		})
	}
	_ = g.Wait()
	return results, nil
}
