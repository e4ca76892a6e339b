// Package cloud defines the drive-provider contract the persistence layer
// syncs through. A provider is treated purely as an opaque remote blob store;
// conflict handling is last-writer-wins by snapshot timestamp at read time.
package cloud

import (
	"context"
	"encoding/json"
)

// Result is the uniform outcome shape every provider call returns.
type Result struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Provider is a remote blob store for user data snapshots.
type Provider interface {
	Authenticate(ctx context.Context) Result
	SignOut(ctx context.Context) Result
	UploadUserData(ctx context.Context, data []byte) Result
	DownloadUserData(ctx context.Context) Result
	SyncStatus(ctx context.Context) Result
}

func ok(message string, data []byte) Result {
	return Result{Success: true, Message: message, Data: data}
}

func fail(message string) Result {
	return Result{Success: false, Message: message}
}
