package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	cfg "github.com/maheshrc27/foodblog-api/configs"
)

// R2Store keeps uploads in a Cloudflare R2 bucket through the S3 API. Keys
// mirror the local layout ("uploads/<folder>/<file>") and URLs are absolute,
// rooted at the bucket's public URL.
type R2Store struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewR2Store(ctx context.Context, r2 cfg.R2) (*R2Store, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(r2.AccessKey, r2.SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r2.AccountID))
	})

	return &R2Store{
		client:    client,
		bucket:    r2.BucketName,
		publicURL: strings.TrimRight(r2.PublicURL, "/"),
	}, nil
}

func (r *R2Store) Save(ctx context.Context, data []byte, originalFilename, mimeType, folder string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyContent
	}

	key := path.Join(uploadMarker, cleanFolder(folder), filenameFor(originalFilename, mimeType))
	input := &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(mimeType),
		ContentLength: aws.Int64(int64(len(data))),
	}

	// PutObject is all-or-nothing: the key only becomes visible once the whole
	// body has been accepted.
	if _, err := r.client.PutObject(ctx, input); err != nil {
		slog.Info(err.Error())
		return "", err
	}

	return r.urlFor(key), nil
}

func (r *R2Store) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	key, err := r.keyFor(url)
	if err != nil {
		return nil, err
	}

	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
		}
		return nil, err
	}
	return out.Body, nil
}

func (r *R2Store) Delete(ctx context.Context, url string) error {
	key, err := r.keyFor(url)
	if errors.Is(err, ErrForeignURL) {
		return nil
	}
	if err != nil {
		return err
	}

	// S3 answers success for keys that do not exist.
	_, err = r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *R2Store) List(ctx context.Context) ([]string, error) {
	paginator := s3.NewListObjectsV2Paginator(r.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(r.bucket),
		Prefix: aws.String(uploadMarker + "/"),
	})

	var urls []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		for _, obj := range page.Contents {
			urls = append(urls, r.urlFor(aws.ToString(obj.Key)))
		}
	}
	return urls, nil
}

func (r *R2Store) urlFor(key string) string {
	if r.publicURL == "" {
		return Canonicalize(key)
	}
	return r.publicURL + "/" + key
}

func (r *R2Store) keyFor(url string) (string, error) {
	if r.publicURL != "" && strings.HasPrefix(url, r.publicURL+"/") {
		return strings.TrimPrefix(url, r.publicURL+"/"), nil
	}
	if IsAbsoluteURL(url) {
		return "", ErrForeignURL
	}
	rel := RelativePath(url)
	if rel == "" {
		return "", fmt.Errorf("%w: %q", ErrNotFound, url)
	}
	return path.Join(uploadMarker, rel), nil
}
