package source

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	rerrors "github.com/vango-dev/reactive/internal/errors"
	"github.com/vango-dev/reactive/pkg/reactive"
)

// S3Scheme prefixes S3 locations.
const S3Scheme = "s3://"

// S3Config configures NewS3Client.
type S3Config struct {
	Region       string
	Endpoint     string
	UsePathStyle bool

	// Anonymous sends unsigned requests, for public buckets.
	Anonymous bool
}

// S3API is the subset of *s3.Client used by S3Store.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Client builds an S3 client from the default AWS configuration chain
// (environment, shared config and credentials files, SSO, web identity and
// instance roles), with cfg's settings applied on top.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.Anonymous {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(aws.AnonymousCredentials{}))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, rerrors.New("S120").
			WithDetail("loading AWS configuration").
			WithSuggestion("Check AWS_PROFILE and ~/.aws/config, or set s3.anonymous for public buckets").
			Wrap(err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// ParseS3URL splits s3://bucket/key.
func ParseS3URL(location string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(location, S3Scheme)
	if !ok {
		return "", "", rerrors.New("S120").WithDetailf("%q is not an s3:// location", location)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", rerrors.New("S120").WithDetailf("%q needs a bucket and a key", location)
	}
	return bucket, key, nil
}

// S3Store is one S3 object.
type S3Store struct {
	client S3API
	bucket string
	key    string
	format Format
}

// NewS3Store creates a store for s3://bucket/key.
func NewS3Store(client S3API, bucket, key string, f Format) *S3Store {
	return &S3Store{client: client, bucket: bucket, key: key, format: f}
}

func (s *S3Store) location() string {
	return S3Scheme + s.bucket + "/" + s.key
}

func (s *S3Store) Load(ctx context.Context) (reactive.State, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, rerrors.New("S120").WithDetail(s.location()).Wrap(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, rerrors.New("S120").WithDetail(s.location()).Wrap(err)
	}
	return Decode(data, s.format)
}

func (s *S3Store) Save(ctx context.Context, state reactive.State) error {
	data, err := Encode(state, s.format)
	if err != nil {
		return err
	}
	contentType := "application/json"
	if s.format == FormatYAML {
		contentType = "application/yaml"
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return rerrors.New("S122").WithDetail(s.location()).Wrap(err)
	}
	return nil
}
