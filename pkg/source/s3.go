package source

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vango-dev/docroutes/internal/errors"
	"github.com/vango-dev/docroutes/pkg/routetable"
)

// S3API is the subset of *s3.Client the S3 loader uses.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// S3 loads a manifest object from an S3 bucket.
//
// Example usage:
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	src := source.NewS3(s3.NewFromConfig(cfg), "docs-site", "build/routes.json")
type S3 struct {
	client S3API
	bucket string
	key    string
	format routetable.Format
}

// NewS3 creates a loader for s3://bucket/key. The format is chosen from the
// key's extension.
func NewS3(client S3API, bucket, key string) *S3 {
	return &S3{client: client, bucket: bucket, key: key}
}

// NewS3FromEnv creates an S3 loader using the default AWS credential chain.
// An empty region defers to the environment.
func NewS3FromEnv(ctx context.Context, region, bucket, key string) (*S3, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.New("E110").WithDetail("loading AWS configuration").Wrap(err)
	}
	return NewS3(s3.NewFromConfig(cfg), bucket, key), nil
}

// WithFormat overrides the extension-derived format.
func (s *S3) WithFormat(format routetable.Format) *S3 {
	s.format = format
	return s
}

// Load implements Loader.
func (s *S3) Load(ctx context.Context) (*routetable.Table, error) {
	format := s.format
	if format == "" {
		var err error
		if format, err = routetable.FormatFromPath(s.key); err != nil {
			return nil, err
		}
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, s.wrapError(err)
	}
	defer out.Body.Close()

	return routetable.Decode(out.Body, format)
}

// Version implements Versioner using the object's ETag.
func (s *S3) Version(ctx context.Context) (string, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return "", s.wrapError(err)
	}
	return aws.ToString(out.ETag), nil
}

// Describe implements Loader.
func (s *S3) Describe() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.key)
}

func (s *S3) wrapError(err error) error {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	if stderrors.As(err, &noSuchKey) || stderrors.As(err, &notFound) {
		return errors.New("E111").WithDetail(s.Describe())
	}
	return errors.New("E110").WithDetail(s.Describe()).Wrap(err)
}
