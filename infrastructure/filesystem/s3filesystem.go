package filesystem

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// WriteFile publishes an object, returning nothing; callers build the public
// URL themselves.
func WriteFile(bucket string, key string, contentType string, ctx context.Context, data []byte) error {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s into bucket %s: %w", key, bucket, err)
	}

	return nil
}

func ReadFile(bucket string, key string, ctx context.Context, outStream io.Writer) error {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	resp, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to get object %s from bucket %s: %w", key, bucket, err)
	}
	defer resp.Body.Close()

	_, err = io.Copy(outStream, resp.Body)
	if err != nil {
		return fmt.Errorf("failed to copy object %s from bucket %s: %w", key, bucket, err)
	}

	return nil
}

// S3Archive exposes a bucket's published reports behind the small surface the
// web layer needs. Only keys under the given prefix are visible.
type S3Archive struct {
	Bucket string
	Prefix string
}

func (a *S3Archive) List(ctx context.Context) ([]string, error) {
	keys, err := ListFiles(a.Bucket, ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]string, 0, len(keys))
	for _, key := range keys {
		if strings.HasPrefix(key, a.Prefix) {
			filtered = append(filtered, key)
		}
	}
	return filtered, nil
}

func (a *S3Archive) Read(ctx context.Context, key string, outStream io.Writer) error {
	if !strings.HasPrefix(key, a.Prefix) {
		return fmt.Errorf("key %s is outside the archive prefix %s", key, a.Prefix)
	}
	return ReadFile(a.Bucket, key, ctx, outStream)
}

func ListFiles(bucket string, ctx context.Context) ([]string, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	var keys []string

	paginator := s3.NewListObjectsV2Paginator(client, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects in bucket %s: %w", bucket, err)
		}

		for _, obj := range page.Contents {
			if obj.Key != nil {
				keys = append(keys, *obj.Key)
			}
		}
	}

	return keys, nil
}
