package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDrive struct {
	mu         sync.Mutex
	folders    []string
	uploads    []fakeUpload
	folderErr  error
	uploadErr  map[string]error
	uploadDone chan string
}

type fakeUpload struct {
	folderID string
	name     string
	mimeType string
	content  string
}

func newFakeDrive() *fakeDrive {
	return &fakeDrive{uploadErr: map[string]error{}, uploadDone: make(chan string, 16)}
}

func (f *fakeDrive) CreateFolder(ctx context.Context, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.folderErr != nil {
		return "", f.folderErr
	}
	f.folders = append(f.folders, name)
	return "folder-1", nil
}

func (f *fakeDrive) Upload(ctx context.Context, folderID, name, mimeType string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.uploadErr[name]; err != nil {
		f.uploadDone <- name
		return "", err
	}
	f.uploads = append(f.uploads, fakeUpload{folderID: folderID, name: name, mimeType: mimeType, content: string(data)})
	f.uploadDone <- name
	return "file-" + name, nil
}

func photo(name, content string) Photo {
	return Photo{Name: name, Content: strings.NewReader(content)}
}

func TestIngestUploadsEveryPhotoIntoOneFolder(t *testing.T) {
	drive := newFakeDrive()
	svc := NewPhotoService(drive, true)

	results, err := svc.Ingest(context.Background(), "Miisu", []Photo{
		photo("esimene.jpg", "aaa"),
		photo("teine.png", "bbb"),
		photo("kolmas.webp", "ccc"),
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, []string{"Miisu"}, drive.folders, "folder must be created exactly once")
	require.Len(t, drive.uploads, 3)

	byName := map[string]fakeUpload{}
	for _, u := range drive.uploads {
		assert.Equal(t, "folder-1", u.folderID)
		byName[u.name] = u
	}
	assert.Equal(t, "image/jpeg", byName["esimene.jpg"].mimeType)
	assert.Equal(t, "image/png", byName["teine.png"].mimeType)
	assert.Equal(t, "image/webp", byName["kolmas.webp"].mimeType)
	assert.Equal(t, "aaa", byName["esimene.jpg"].content)

	for _, r := range results {
		assert.Empty(t, r.Error)
		assert.Equal(t, "file-"+r.Name, r.FileID)
	}
}

func TestIngestRejectsUnknownExtensionBeforeAnySideEffect(t *testing.T) {
	drive := newFakeDrive()
	svc := NewPhotoService(drive, true)

	_, err := svc.Ingest(context.Background(), "Miisu", []Photo{
		photo("esimene.jpg", "aaa"),
		photo("dokument.pdf", "bbb"),
	})
	require.ErrorIs(t, err, ErrUnknownExtension)
	assert.Empty(t, drive.folders, "no folder may be created for a rejected batch")
	assert.Empty(t, drive.uploads)
}

func TestIngestFailsWhenFolderCreationFails(t *testing.T) {
	drive := newFakeDrive()
	drive.folderErr = errors.New("drive is down")
	svc := NewPhotoService(drive, true)

	_, err := svc.Ingest(context.Background(), "Miisu", []Photo{photo("esimene.jpg", "aaa")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create folder")
	assert.Empty(t, drive.uploads)
}

func TestIngestCollectsPerFileFailures(t *testing.T) {
	drive := newFakeDrive()
	drive.uploadErr["katki.gif"] = errors.New("connection reset")
	svc := NewPhotoService(drive, true)

	results, err := svc.Ingest(context.Background(), "Miisu", []Photo{
		photo("terve.jpg", "aaa"),
		photo("katki.gif", "bbb"),
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "file-terve.jpg", results[0].FileID)
	assert.Empty(t, results[0].Error)
	assert.Empty(t, results[1].FileID)
	assert.Contains(t, results[1].Error, "connection reset")
}

func TestIngestFireAndForgetReturnsBeforeUploadsFinish(t *testing.T) {
	drive := newFakeDrive()
	svc := NewPhotoService(drive, false)

	results, err := svc.Ingest(context.Background(), "Miisu", []Photo{
		photo("esimene.jpg", "aaa"),
		photo("teine.png", "bbb"),
	})
	require.NoError(t, err)
	assert.Nil(t, results, "detached mode reports no per-file outcomes")

	for i := 0; i < 2; i++ {
		select {
		case <-drive.uploadDone:
		case <-time.After(2 * time.Second):
			t.Fatal("detached upload never finished")
		}
	}

	drive.mu.Lock()
	defer drive.mu.Unlock()
	assert.Len(t, drive.uploads, 2)
}
