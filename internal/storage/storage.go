// Package storage handles the image binaries behind item image URLs. The
// database is the source of truth; deletes here are best-effort reclamation
// and never fail the caller.
package storage

import (
	"context"
	"log"
	"net/url"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type ImageStore interface {
	// DeleteImages removes the objects behind the given public URLs and
	// returns how many deletes were issued successfully. Failures are logged
	// and skipped.
	DeleteImages(ctx context.Context, imageURLs []string) int
}

type gcsStore struct {
	client *storage.Client
	bucket string
}

func NewGCSStore(ctx context.Context, bucket string) (ImageStore, error) {
	client, err := storage.NewClient(ctx, option.WithScopes(storage.ScopeFullControl))
	if err != nil {
		return nil, err
	}
	return &gcsStore{client: client, bucket: bucket}, nil
}

func (s *gcsStore) DeleteImages(ctx context.Context, imageURLs []string) int {
	deleted := 0
	for _, raw := range imageURLs {
		path := ExtractObjectPath(raw, s.bucket)
		if path == "" {
			log.Printf("storage: could not extract object path from %q", raw)
			continue
		}
		if err := s.client.Bucket(s.bucket).Object(path).Delete(ctx); err != nil {
			log.Printf("storage: delete %s failed: %v", path, err)
			continue
		}
		deleted++
	}
	return deleted
}

// ExtractObjectPath pulls the bucket-relative object path out of a public
// image URL. Two forms are recognized:
//
//	https://firebasestorage.googleapis.com/v0/b/<bucket>/o/<escaped path>?alt=media&token=...
//	https://storage.googleapis.com/<bucket>/<path>
//
// Returns "" when the URL does not point into the given bucket.
func ExtractObjectPath(imageURL, bucket string) string {
	u, err := url.Parse(imageURL)
	if err != nil {
		return ""
	}
	switch u.Host {
	case "firebasestorage.googleapis.com":
		prefix := "/v0/b/" + bucket + "/o/"
		if !strings.HasPrefix(u.Path, prefix) {
			return ""
		}
		// The object path is escaped as a single segment in this URL form.
		escaped := strings.TrimPrefix(u.Path, prefix)
		path, err := url.PathUnescape(escaped)
		if err != nil {
			return ""
		}
		return path
	case "storage.googleapis.com":
		prefix := "/" + bucket + "/"
		if !strings.HasPrefix(u.Path, prefix) {
			return ""
		}
		return strings.TrimPrefix(u.Path, prefix)
	default:
		return ""
	}
}
