package filesystem

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func newClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

func ReadFile(bucket string, key string, ctx context.Context, outStream io.Writer) error {
	client, err := newClient(ctx)
	if err != nil {
		return err
	}

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

func WriteFile(bucket string, key string, ctx context.Context, body io.Reader, contentType string) error {
	client, err := newClient(ctx)
	if err != nil {
		return err
	}

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s into bucket %s: %w", key, bucket, err)
	}
	return nil
}

// ListFiles returns the keys of bucket under prefix; an empty prefix
// lists everything.
func ListFiles(bucket string, prefix string, ctx context.Context) ([]string, error) {
	client, err := newClient(ctx)
	if err != nil {
		return nil, err
	}

	var keys []string
	input := &s3.ListObjectsV2Input{Bucket: aws.String(bucket)}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	paginator := s3.NewListObjectsV2Paginator(client, input)
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

// Bucket binds the file functions to one bucket and key prefix.
type Bucket struct {
	Name   string
	Prefix string
}

func NewBucket(name, prefix string) *Bucket {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &Bucket{Name: name, Prefix: prefix}
}

func (b *Bucket) Key(name string) string {
	return b.Prefix + name
}

func (b *Bucket) Upload(ctx context.Context, name string, body io.Reader, contentType string) (string, error) {
	key := b.Key(name)
	if err := WriteFile(b.Name, key, ctx, body, contentType); err != nil {
		return "", err
	}
	return key, nil
}

func (b *Bucket) Download(ctx context.Context, name string, out io.Writer) error {
	return ReadFile(b.Name, b.Key(name), ctx, out)
}

// List returns file names relative to the prefix.
func (b *Bucket) List(ctx context.Context) ([]string, error) {
	keys, err := ListFiles(b.Name, b.Prefix, ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(keys))
	for _, key := range keys {
		names = append(names, strings.TrimPrefix(key, b.Prefix))
	}
	return names, nil
}
