// Package publish uploads rendered pages to S3.
//
// Example usage:
//
//	client := publish.NewS3Client(publish.ClientConfig{Region: "eu-west-1"})
//	p, err := publish.New(client, publish.Options{Bucket: "my-site", Prefix: "pages/"})
//	res, err := p.Publish(ctx, "index.html", html)
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/bemhtml/internal/errors"
)

// DefaultContentType is stored with every page unless overridden.
const DefaultContentType = "text/html; charset=utf-8"

// Putter is the subset of the S3 client used by Publisher.
type Putter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var _ Putter = (*s3.Client)(nil)

// Options configures a Publisher.
type Options struct {
	// Bucket is the target bucket. Required.
	Bucket string

	// Prefix is prepended to every key (e.g., "pages/").
	Prefix string

	// ContentType defaults to DefaultContentType.
	ContentType string

	// CacheControl is stored with every page when set.
	CacheControl string

	// Logger receives publish logs. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Publisher uploads HTML documents to one bucket.
type Publisher struct {
	client       Putter
	bucket       string
	prefix       string
	contentType  string
	cacheControl string
	logger       *slog.Logger
}

// Result describes an uploaded page.
type Result struct {
	Bucket string
	Key    string
	Bytes  int
	ETag   string
}

// URL returns the s3:// URL of the page.
func (r Result) URL() string {
	return "s3://" + r.Bucket + "/" + r.Key
}

// New creates a Publisher.
func New(client Putter, opts Options) (*Publisher, error) {
	if opts.Bucket == "" {
		return nil, errors.New("B302")
	}
	contentType := opts.ContentType
	if contentType == "" {
		contentType = DefaultContentType
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		client:       client,
		bucket:       opts.Bucket,
		prefix:       opts.Prefix,
		contentType:  contentType,
		cacheControl: opts.CacheControl,
		logger:       logger,
	}, nil
}

// Key returns the object key for name.
func (p *Publisher) Key(name string) string {
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	return p.prefix + name
}

// Publish uploads html under name.
func (p *Publisher) Publish(ctx context.Context, name, html string) (Result, error) {
	key := p.Key(name)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(html),
		ContentType: aws.String(p.contentType),
		Metadata: map[string]string{
			"generator":   "bemhtml",
			"rendered-at": time.Now().UTC().Format(time.RFC3339),
		},
	}
	if p.cacheControl != "" {
		input.CacheControl = aws.String(p.cacheControl)
	}

	out, err := p.client.PutObject(ctx, input)
	if err != nil {
		return Result{}, errors.New("B301").
			WithDetail(fmt.Sprintf("Uploading s3://%s/%s failed.", p.bucket, key)).
			Wrap(err)
	}

	res := Result{
		Bucket: p.bucket,
		Key:    key,
		Bytes:  len(html),
	}
	if out != nil {
		res.ETag = aws.ToString(out.ETag)
	}

	p.logger.Info("page published",
		slog.String("url", res.URL()),
		slog.Int("bytes", res.Bytes))
	return res, nil
}

// ClientConfig configures NewS3Client.
type ClientConfig struct {
	// Region is the AWS region of the bucket.
	Region string

	// Endpoint overrides the S3 endpoint, for S3-compatible stores.
	Endpoint string
}

// NewS3Client creates an S3 client that reads credentials from the
// standard AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN
// environment variables.
func NewS3Client(cfg ClientConfig) *s3.Client {
	region := cfg.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}

	opts := s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(aws.CredentialsProviderFunc(envCredentials)),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	return s3.New(opts)
}

func envCredentials(context.Context) (aws.Credentials, error) {
	id := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.Credentials{}, fmt.Errorf("AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
	}
	return aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "Environment",
	}, nil
}
