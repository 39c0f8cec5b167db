// Package s3 keeps generated audio in an S3 bucket or any S3-compatible
// server such as MinIO.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/kbukum/lingolink/logger"
	"github.com/kbukum/lingolink/storage"
)

func init() {
	// Objects are served with these types; the system table may lack them.
	_ = mime.AddExtensionType(".mp3", "audio/mpeg")
	_ = mime.AddExtensionType(".wav", "audio/wav")
	storage.RegisterFactory(storage.ProviderS3, func(cfg storage.Config, _ *logger.Logger) (storage.Storage, error) {
		return NewStorage(context.Background(), cfg.S3)
	})
}

// Storage maps keys onto objects under an optional prefix.
type Storage struct {
	client *awss3.Client
	bucket string
	prefix string
}

var _ storage.Storage = (*Storage)(nil)

// NewStorage builds an S3 client. Static credentials are used when both keys
// are set; otherwise the default AWS credential chain applies.
func NewStorage(ctx context.Context, cfg storage.S3Config) (*Storage, error) {
	if cfg.Region == "" {
		cfg.Region = storage.DefaultRegion
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		o.UsePathStyle = cfg.ForcePathStyle || cfg.Endpoint != ""
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		// S3-compatible servers often reject the newer default checksums.
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})
	return &Storage{client: client, bucket: cfg.Bucket, prefix: strings.Trim(cfg.Prefix, "/")}, nil
}

// objectKey applies the prefix. Keys are cleaned so "../" cannot climb
// above it.
func (s *Storage) objectKey(key string) string {
	key = strings.TrimPrefix(path.Clean("/"+key), "/")
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

// at returns the bucket and object key pointers every request takes.
func (s *Storage) at(key string) (*string, *string) {
	return aws.String(s.bucket), aws.String(s.objectKey(key))
}

func (s *Storage) storageKey(objectKey string) string {
	if s.prefix == "" {
		return objectKey
	}
	return strings.TrimPrefix(objectKey, s.prefix+"/")
}

// Put uploads r as one object. S3 objects become visible only once complete.
func (s *Storage) Put(ctx context.Context, key string, r io.Reader) error {
	in := &awss3.PutObjectInput{Body: r}
	in.Bucket, in.Key = s.at(key)
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		in.ContentType = aws.String(ct)
	}
	if _, err := s.client.PutObject(ctx, in); err != nil {
		return fmt.Errorf("s3: put %s: %w", key, err)
	}
	return nil
}

// Get streams the object body.
func (s *Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	in := &awss3.GetObjectInput{}
	in.Bucket, in.Key = s.at(key)
	out, err := s.client.GetObject(ctx, in)
	if isNotFound(err) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("s3: get %s: %w", key, err)
	}
	return out.Body, nil
}

// Delete removes the object; S3 already treats missing keys as success.
func (s *Storage) Delete(ctx context.Context, key string) error {
	in := &awss3.DeleteObjectInput{}
	in.Bucket, in.Key = s.at(key)
	if _, err := s.client.DeleteObject(ctx, in); err != nil {
		return fmt.Errorf("s3: delete %s: %w", key, err)
	}
	return nil
}

// Exists issues a HEAD request.
func (s *Storage) Exists(ctx context.Context, key string) (bool, error) {
	in := &awss3.HeadObjectInput{}
	in.Bucket, in.Key = s.at(key)
	_, err := s.client.HeadObject(ctx, in)
	switch {
	case err == nil:
		return true, nil
	case isNotFound(err):
		return false, nil
	default:
		return false, fmt.Errorf("s3: head %s: %w", key, err)
	}
}

// List pages through ListObjectsV2.
func (s *Storage) List(ctx context.Context, prefix string) ([]storage.Object, error) {
	listPrefix := prefix
	if s.prefix != "" {
		listPrefix = s.prefix + "/" + prefix
	}

	objects := []storage.Object{}
	pages := awss3.NewListObjectsV2Paginator(s.client, &awss3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(listPrefix),
	})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("s3: list %q: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			objects = append(objects, storage.Object{
				Key:      s.storageKey(aws.ToString(obj.Key)),
				Size:     aws.ToInt64(obj.Size),
				Modified: aws.ToTime(obj.LastModified),
			})
		}
	}
	slices.SortFunc(objects, func(a, b storage.Object) int { return strings.Compare(a.Key, b.Key) })
	return objects, nil
}

// isNotFound matches GetObject's NoSuchKey and HeadObject's bare NotFound.
func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &noSuchKey) || errors.As(err, &notFound)
}
