// Package backup copies the journal file to S3-compatible object storage
// after each save. Only ciphertext leaves the machine: the uploaded object
// is the backing file exactly as written.
package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophjournal/internal/logging"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	now = time.Now
)

// ErrNoBucket is returned by New when no bucket is configured.
var ErrNoBucket = errors.New("backup bucket is not set")

// Config holds the object storage settings.
type Config struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Uploader puts journal files into a bucket.
type Uploader struct {
	cfg    Config
	client *s3.Client
	log    logging.Logger
}

// New builds an Uploader. Static credentials are used when both AccessKey
// and SecretKey are set; otherwise the default AWS credential chain applies.
func New(ctx context.Context, cfg Config, log logging.Logger) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, ErrNoBucket
	}
	if log == nil {
		log = logging.Discard()
	}

	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Uploader{cfg: cfg, client: client, log: log}, nil
}

// ObjectKey returns the object key for a journal file uploaded at t:
// <prefix>/<file name>/YYYY/MM/DD/<uuid>.
func ObjectKey(prefix, file string, t time.Time) string {
	name := filepath.Base(file)
	key := fmt.Sprintf("%s/%04d/%02d/%02d/%v", name, t.Year(), t.Month(), t.Day(), uuid.New())
	if prefix == "" {
		return key
	}
	return path.Join(prefix, key)
}

// Upload copies the file at p to the bucket and returns the object key.
func (u *Uploader) Upload(ctx context.Context, p string) (string, error) {
	f, err := os.Open(p)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", p, err)
	}
	defer f.Close()

	key := ObjectKey(u.cfg.Prefix, p, now())
	bucket := u.cfg.Bucket

	_, err = putObject(u.client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        f,
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return "", fmt.Errorf("put %s/%s: %w", bucket, key, err)
	}

	u.log.Info(ctx, "journal backed up", "bucket", bucket, "key", key)
	return key, nil
}

// AfterSave is a journal.AfterSaveFunc.
func (u *Uploader) AfterSave(ctx context.Context, p string) error {
	_, err := u.Upload(ctx, p)
	return err
}
