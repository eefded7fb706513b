package content

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// s3API is the slice of the S3 client the loader uses.
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3 loads fragments and the data payload from an S3 bucket.
//
// Example:
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	loader := content.NewS3(s3.NewFromConfig(cfg), "my-bucket", "site/")
type S3 struct {
	client  s3API
	bucket  string
	prefix  string
	dataKey string
}

// NewS3 creates an S3 loader. Fragment objects live under
// prefix+name+".html"; the payload under prefix+"data.json".
func NewS3(client *s3.Client, bucket, prefix string) *S3 {
	return newS3(client, bucket, prefix)
}

func newS3(client s3API, bucket, prefix string) *S3 {
	return &S3{
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		dataKey: prefix + "data.json",
	}
}

// WithDataKey overrides the payload object key.
func (l *S3) WithDataKey(key string) *S3 {
	l.dataKey = key
	return l
}

// Fragment implements Loader.
func (l *S3) Fragment(ctx context.Context, name string) ([]byte, error) {
	if !validName(name) {
		return nil, fmt.Errorf("%w: bad fragment name %q", ErrNotFound, name)
	}
	raw, err := l.get(ctx, l.prefix+name+FragmentExt)
	if isNoSuchKey(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return raw, err
}

// Data implements Loader.
func (l *S3) Data(ctx context.Context) ([]byte, error) {
	return l.get(ctx, l.dataKey)
}

func (l *S3) get(ctx context.Context, key string) ([]byte, error) {
	out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

// isNoSuchKey reports whether err is S3's missing-object error.
func isNoSuchKey(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "NoSuchKey"
	}
	return false
}
