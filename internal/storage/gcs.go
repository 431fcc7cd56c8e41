package storage

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"billing/internal/logger"
)

// GCSSaver uploads documents to a Google Cloud Storage bucket.
type GCSSaver struct {
	client *storage.Client
	bucket string
	prefix string
	log    zerolog.Logger
}

// NewGCSSaver creates a cloud saver. Credentials come from credentialsJSON
// when set, and from application default credentials otherwise. Object names
// are placed below prefix.
func NewGCSSaver(ctx context.Context, bucket, prefix, credentialsJSON string) (*GCSSaver, error) {
	const op = "NewGCSSaver"

	if strings.TrimSpace(bucket) == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrNoBucket)
	}

	var opts []option.ClientOption
	if strings.TrimSpace(credentialsJSON) != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create storage client: %w", op, err)
	}

	return &GCSSaver{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		log:    logger.WithComponent("gcs-saver"),
	}, nil
}

// Save uploads data as bucket/prefix/name.
func (s *GCSSaver) Save(ctx context.Context, name string, data []byte) error {
	const op = "GCSSaver.Save"

	clean, err := cleanName(name)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	object := clean
	if s.prefix != "" {
		object = path.Join(s.prefix, clean)
	}

	w := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
	w.ContentType = http.DetectContentType(data)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("%s: failed to upload %s: %w", op, object, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%s: failed to finalize %s: %w", op, object, err)
	}

	s.log.Info().
		Str("bucket", s.bucket).
		Str("object", object).
		Int("bytes", len(data)).
		Msg("Document uploaded")
	return nil
}

// Close releases the storage client.
func (s *GCSSaver) Close() error {
	return s.client.Close()
}
