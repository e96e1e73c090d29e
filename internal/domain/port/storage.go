package port

import "context"

// ArtifactStorage mirrors completed videos to an external object store.
type ArtifactStorage interface {
	UploadVideo(ctx context.Context, objectKey string, localPath string) error
}
