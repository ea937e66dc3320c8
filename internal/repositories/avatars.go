package repositories

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	"github.com/staynear-app/server/internal/config"
)

// AvatarStore persists profile images. When R2 credentials are configured it
// writes to the bucket and returns public URLs; otherwise it falls back to a
// local uploads directory so the server still works in development.
type AvatarStore struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
	localDir      string
}

// NewAvatarStore initializes the store from config. An empty R2 account id
// selects the local-disk fallback.
func NewAvatarStore(cfg config.R2Config, localDir string) (*AvatarStore, error) {
	if cfg.AccountID == "" {
		if err := os.MkdirAll(localDir, 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir: %w", err)
		}
		logrus.Infof("Avatar store using local directory %s", localDir)
		return &AvatarStore{localDir: localDir}, nil
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	awsCfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Region:      cfg.Region,
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	logrus.Info("Successfully initialized R2 avatar store")

	return &AvatarStore{
		client:        client,
		bucket:        cfg.BucketName,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// Save stores the image body under key and returns the URL to record on the
// user row.
func (a *AvatarStore) Save(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if a.client == nil {
		return a.saveLocal(key, body)
	}

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	if a.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s", a.publicBaseURL, key), nil
	}
	return key, nil
}

func (a *AvatarStore) saveLocal(key string, body io.Reader) (string, error) {
	path := filepath.Join(a.localDir, key)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, body); err != nil {
		return "", err
	}
	return path, nil
}
