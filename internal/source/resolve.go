// Package source turns a document reference into a readable local file.
//
// Supported references:
//   - absolute or relative filesystem paths, or file://path
//   - http(s):// URLs (downloaded to a temp file)
//   - s3://bucket/key (downloaded to a temp file via AWS SDK v2)
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// Temp file prefixes; CleanupTemps only touches files carrying one of them.
const (
	httpTempPattern = "pdfdl-*.pdf"
	s3TempPattern   = "s3pdf-*.pdf"
)

// S3Options configures access to s3:// references. Empty fields fall back to
// the default AWS credential chain and region.
type S3Options struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Local is a resolved reference.
type Local struct {
	Ref    string
	Path   string
	Remote bool
	tmp    string
}

// Name is the base name used for output files.
func (l *Local) Name() string {
	ref := l.Ref
	if i := strings.IndexAny(ref, "?#"); i >= 0 && l.Remote {
		ref = ref[:i]
	}
	return path.Base(ref)
}

// Close removes the temp download, if any.
func (l *Local) Close() error {
	if l.tmp == "" {
		return nil
	}
	err := os.Remove(l.tmp)
	l.tmp = ""
	return err
}

// Resolver downloads remote references.
type Resolver struct {
	HTTP    *http.Client
	S3      S3Options
	TempDir string

	mu  sync.Mutex
	s3c *s3.Client
}

// NewResolver creates a resolver with an HTTP client using timeout.
func NewResolver(timeout time.Duration, s3opts S3Options) *Resolver {
	return &Resolver{HTTP: &http.Client{Timeout: timeout}, S3: s3opts}
}

// IsRemote reports whether ref must be downloaded before extraction.
func IsRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "s3://")
}

// Resolve returns a local file for ref. The caller must Close it.
func (r *Resolver) Resolve(ctx context.Context, ref string) (*Local, error) {
	switch {
	case strings.HasPrefix(ref, "file://"):
		return &Local{Ref: ref, Path: strings.TrimPrefix(ref, "file://")}, nil
	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		p, err := r.downloadHTTP(ctx, ref)
		if err != nil {
			return nil, err
		}
		return &Local{Ref: ref, Path: p, Remote: true, tmp: p}, nil
	case strings.HasPrefix(ref, "s3://"):
		p, err := r.downloadS3(ctx, ref)
		if err != nil {
			return nil, err
		}
		return &Local{Ref: ref, Path: p, Remote: true, tmp: p}, nil
	default:
		return &Local{Ref: ref, Path: ref}, nil
	}
}

func (r *Resolver) downloadHTTP(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	client := r.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download %s: http %d", url, resp.StatusCode)
	}

	f, err := os.CreateTemp(r.TempDir, httpTempPattern)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("download %s: %w", url, err)
	}
	log.Debug().Str("url", url).Str("file", f.Name()).Msg("downloaded pdf to temp")
	return f.Name(), nil
}

// ParseS3URL splits s3://bucket/key.
func ParseS3URL(s3url string) (bucket, key string, err error) {
	p := strings.TrimPrefix(s3url, "s3://")
	slash := strings.Index(p, "/")
	if slash <= 0 || slash == len(p)-1 {
		return "", "", fmt.Errorf("invalid s3 url: %s", s3url)
	}
	return p[:slash], p[slash+1:], nil
}

func (r *Resolver) downloadS3(ctx context.Context, s3url string) (string, error) {
	bucket, key, err := ParseS3URL(s3url)
	if err != nil {
		return "", err
	}
	cli, err := r.s3Client(ctx)
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp(r.TempDir, s3TempPattern)
	if err != nil {
		return "", err
	}
	defer f.Close()

	n, err := manager.NewDownloader(cli).Download(ctx, f, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("download %s: %w", s3url, err)
	}
	log.Info().Str("bucket", bucket).Str("key", key).Int64("bytes", n).Msg("downloaded s3 pdf to temp")
	return f.Name(), nil
}

func (r *Resolver) s3Client(ctx context.Context) (*s3.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.s3c != nil {
		return r.s3c, nil
	}

	var loadOpts []func(*awscfg.LoadOptions) error
	if r.S3.Region != "" {
		loadOpts = append(loadOpts, awscfg.WithRegion(r.S3.Region))
	}
	if r.S3.AccessKey != "" && r.S3.SecretKey != "" {
		loadOpts = append(loadOpts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(r.S3.AccessKey, r.S3.SecretKey, "")))
	}
	cfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	r.s3c = s3.NewFromConfig(cfg, func(o *s3.Options) {
		if r.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(r.S3.Endpoint)
			o.UsePathStyle = true
		}
	})
	return r.s3c, nil
}
