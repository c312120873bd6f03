// Package storage stores objects in an S3-compatible bucket such as
// Cloudflare R2.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/macapp/admin-console/internal/core/ports"
	appconfig "github.com/macapp/admin-console/internal/infrastructure/config"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// objectAPI is the subset of *s3.Client used by Bucket.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// Bucket implements ports.ObjectStorage.
type Bucket struct {
	client     objectAPI
	name       string
	endpoint   string
	publicBase string
}

var _ ports.ObjectStorage = (*Bucket)(nil)

// New builds a Bucket from the storage settings. Requests use path-style
// addressing against the configured endpoint.
func New(ctx context.Context, cfg appconfig.StorageConfig) (*Bucket, error) {
	endpoint := cfg.EndpointURL()
	if endpoint == "" {
		return nil, fmt.Errorf("storage: no endpoint configured")
	}

	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &Bucket{
		client:     client,
		name:       cfg.Bucket,
		endpoint:   strings.TrimRight(endpoint, "/"),
		publicBase: strings.TrimRight(cfg.PublicBase, "/"),
	}, nil
}

// Put uploads obj. Bodies that cannot seek are buffered so the request can
// be signed.
func (b *Bucket) Put(ctx context.Context, obj ports.Object) error {
	body := obj.Body
	if _, ok := body.(io.ReadSeeker); !ok {
		data, err := io.ReadAll(body)
		if err != nil {
			return fmt.Errorf("storage: read body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.name),
		Key:           aws.String(obj.Key),
		Body:          body,
		ContentType:   aws.String(obj.ContentType),
		ContentLength: aws.Int64(obj.Size),
	})
	if err != nil {
		return fmt.Errorf("storage: put %s: %w", obj.Key, err)
	}
	return nil
}

// Head confirms that key exists and returns its metadata.
func (b *Bucket) Head(ctx context.Context, key string) (*ports.ObjectInfo, error) {
	out, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("storage: head %s: %w", key, err)
	}
	return &ports.ObjectInfo{
		Key:         key,
		Size:        aws.ToInt64(out.ContentLength),
		ETag:        aws.ToString(out.ETag),
		ContentType: aws.ToString(out.ContentType),
	}, nil
}

// PublicURL returns the address clients use to fetch key: under the public
// base when one is configured, otherwise the path-style endpoint URL.
func (b *Bucket) PublicURL(key string) string {
	if b.publicBase != "" {
		return b.publicBase + "/" + key
	}
	return fmt.Sprintf("%s/%s/%s", b.endpoint, b.name, key)
}
