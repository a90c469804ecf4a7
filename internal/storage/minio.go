package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStore is the upload surface the editor needs.
type ObjectStore interface {
	PutBytes(ctx context.Context, objectPath string, data []byte, contentType string) error
	PublicURL(objectPath string) string
}

var (
	_ ObjectStore = (*MinioStore)(nil)
	_ ObjectStore = (*MemoryStore)(nil)
)

type MinioStore struct {
	Client     *minio.Client
	Bucket     string
	PublicBase string
}

const publicReadPolicy = `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`

// NewMinioStore connects, creates the bucket when missing and makes its
// objects publicly readable so uploaded images can be linked directly.
func NewMinioStore(ctx context.Context, endpoint, accessKey, secretKey string, secure bool, bucket, publicBase string) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}
	if err := client.SetBucketPolicy(ctx, bucket, fmt.Sprintf(publicReadPolicy, bucket)); err != nil {
		return nil, fmt.Errorf("set bucket policy: %w", err)
	}

	return &MinioStore{Client: client, Bucket: bucket, PublicBase: strings.TrimRight(publicBase, "/")}, nil
}

func (s *MinioStore) PutBytes(ctx context.Context, objectPath string, data []byte, contentType string) error {
	reader := bytes.NewReader(data)
	_, err := s.Client.PutObject(ctx, s.Bucket, objectPath, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000, immutable",
	})
	return err
}

func (s *MinioStore) PublicURL(objectPath string) string {
	return s.PublicBase + "/" + s.Bucket + "/" + strings.TrimLeft(objectPath, "/")
}

func GuessContentType(filename string, fallback string) string {
	if ext := path.Ext(filename); ext != "" {
		if ct := mime.TypeByExtension(ext); ct != "" {
			return ct
		}
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return "application/octet-stream"
}

// UploadPath namespaces an upload by entity and time:
// <entity>/<unix-millis>-<sanitized-name>.
func UploadPath(entity, filename string, now time.Time) string {
	return fmt.Sprintf("%s/%d-%s", SanitizeName(entity), now.UnixMilli(), SanitizeName(filename))
}

// SanitizeName keeps ASCII letters, digits, dots and underscores. Runs of
// anything else become a single dash.
func SanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	dash := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_':
			b.WriteRune(r)
			dash = false
		default:
			if !dash {
				b.WriteByte('-')
			}
			dash = true
		}
	}
	out := strings.Trim(b.String(), "-.")
	if out == "" {
		return "file"
	}
	return out
}

// MemoryStore keeps objects in memory. It backs tests and local runs without
// MinIO.
type MemoryStore struct {
	Base string

	mu      sync.Mutex
	objects map[string]MemoryObject
	// Err, when set, is returned by every PutBytes.
	Err error
}

type MemoryObject struct {
	Data        []byte
	ContentType string
}

func NewMemoryStore(base string) *MemoryStore {
	return &MemoryStore{Base: strings.TrimRight(base, "/"), objects: make(map[string]MemoryObject)}
}

func (m *MemoryStore) PutBytes(_ context.Context, objectPath string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.objects[objectPath] = MemoryObject{Data: append([]byte(nil), data...), ContentType: contentType}
	return nil
}

func (m *MemoryStore) PublicURL(objectPath string) string {
	return m.Base + "/" + strings.TrimLeft(objectPath, "/")
}

func (m *MemoryStore) Object(objectPath string) (MemoryObject, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.objects[objectPath]
	return o, ok
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
