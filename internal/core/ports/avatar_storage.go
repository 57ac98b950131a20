package ports

import "context"

// AvatarStorage uploads avatar images to object storage and returns a
// publicly reachable URL.
type AvatarStorage interface {
	Upload(ctx context.Context, contentType string, data []byte) (string, error)
}
