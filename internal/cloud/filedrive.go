package cloud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	blobName   = "mindlist_backup.json"
	statusName = "sync_status.json"
)

// syncStatus is the provider-side metadata kept beside the blob.
type syncStatus struct {
	Connected  bool       `json:"connected"`
	LastUpload *time.Time `json:"lastUpload,omitempty"`
	BlobBytes  int        `json:"blobBytes,omitempty"`
}

// FileDrive is a Provider backed by a local directory, standing in for a
// real drive service. Useful for development and as the sync target for a
// directory that is itself synced by an external tool.
type FileDrive struct {
	dir string
}

// NewFileDrive creates a provider storing blobs under dir.
func NewFileDrive(dir string) *FileDrive {
	return &FileDrive{dir: dir}
}

// Authenticate ensures the backing directory exists and marks the drive
// connected.
func (d *FileDrive) Authenticate(ctx context.Context) Result {
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return fail(fmt.Sprintf("drive unavailable: %v", err))
	}
	if err := d.writeStatus(syncStatus{Connected: true}); err != nil {
		return fail(fmt.Sprintf("drive unavailable: %v", err))
	}
	return ok("connected", nil)
}

// SignOut marks the drive disconnected. Stored blobs are left in place.
func (d *FileDrive) SignOut(ctx context.Context) Result {
	if err := d.writeStatus(syncStatus{Connected: false}); err != nil {
		return fail(fmt.Sprintf("sign out failed: %v", err))
	}
	return ok("signed out", nil)
}

// UploadUserData stores the snapshot blob, replacing any previous one.
func (d *FileDrive) UploadUserData(ctx context.Context, data []byte) Result {
	if err := ctx.Err(); err != nil {
		return fail(err.Error())
	}
	if err := os.MkdirAll(d.dir, 0755); err != nil {
		return fail(fmt.Sprintf("upload failed: %v", err))
	}

	// Write through a temp file so a crash never leaves a torn blob
	tmp, err := os.CreateTemp(d.dir, blobName+".tmp-")
	if err != nil {
		return fail(fmt.Sprintf("upload failed: %v", err))
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fail(fmt.Sprintf("upload failed: %v", err))
	}
	if err := tmp.Close(); err != nil {
		return fail(fmt.Sprintf("upload failed: %v", err))
	}
	if err := os.Rename(tmpName, filepath.Join(d.dir, blobName)); err != nil {
		return fail(fmt.Sprintf("upload failed: %v", err))
	}

	now := time.Now()
	_ = d.writeStatus(syncStatus{Connected: true, LastUpload: &now, BlobBytes: len(data)})
	return ok("uploaded", nil)
}

// DownloadUserData returns the stored snapshot blob.
func (d *FileDrive) DownloadUserData(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return fail(err.Error())
	}
	data, err := os.ReadFile(filepath.Join(d.dir, blobName))
	if errors.Is(err, os.ErrNotExist) {
		return fail("no backup found")
	}
	if err != nil {
		return fail(fmt.Sprintf("download failed: %v", err))
	}
	return ok("downloaded", data)
}

// SyncStatus reports provider-side sync metadata.
func (d *FileDrive) SyncStatus(ctx context.Context) Result {
	data, err := os.ReadFile(filepath.Join(d.dir, statusName))
	if errors.Is(err, os.ErrNotExist) {
		raw, _ := json.Marshal(syncStatus{})
		return ok("never synced", raw)
	}
	if err != nil {
		return fail(fmt.Sprintf("status unavailable: %v", err))
	}
	return ok("ok", data)
}

func (d *FileDrive) writeStatus(s syncStatus) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(d.dir, statusName), raw, 0644)
}
