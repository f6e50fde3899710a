package export

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/i474232898/environmental-data-aggregation/internal/climate"
)

// ObjectUploader stores reports in an S3-compatible bucket, once under a
// run-specific key and once as latest.json.
type ObjectUploader struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewObjectUploader constructs the uploader. The endpoint scheme selects TLS.
func NewObjectUploader(endpoint, accessKey, secretKey, bucket, region, prefix string) (*ObjectUploader, error) {
	useSSL := strings.HasPrefix(strings.ToLower(endpoint), "https")
	host := strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://")
	host = strings.TrimSuffix(host, "/")

	client, err := minio.New(host, &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       useSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("s3: init client: %w", err)
	}
	return &ObjectUploader{client: client, bucket: bucket, prefix: prefix}, nil
}

func (u *ObjectUploader) ensureBucket(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err == nil && exists {
		return nil
	}
	err = u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
		return err
	}
	return nil
}

func (u *ObjectUploader) SaveReport(ctx context.Context, report *climate.Report) error {
	data, err := Encode(report)
	if err != nil {
		return fmt.Errorf("s3: encode report: %w", err)
	}
	if err := u.ensureBucket(ctx); err != nil {
		return fmt.Errorf("s3: ensure bucket: %w", err)
	}

	for _, key := range ObjectKeys(u.prefix, report) {
		_, err := u.client.PutObject(ctx, u.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
			ContentType:      "application/json",
			DisableMultipart: true,
		})
		if err != nil {
			return fmt.Errorf("s3: put %s: %w", key, err)
		}
	}
	return nil
}

// ObjectKeys returns the keys a report is stored under.
func ObjectKeys(prefix string, report *climate.Report) []string {
	day := report.Metadata.ReportDate.UTC().Format("2006/01/02")
	name := fmt.Sprintf("%s-%s.json", report.Metadata.ReportDate.UTC().Format("150405"), report.Metadata.RunID)
	return []string{
		path.Join(prefix, day, name),
		path.Join(prefix, "latest.json"),
	}
}
