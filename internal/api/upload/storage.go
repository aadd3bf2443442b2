package upload

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"ragdocs/config"
	s3client "ragdocs/pkg/s3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func storedName(fh *multipart.FileHeader, hasher hash.Hash) (name, shaHex string) {
	shaHex = hex.EncodeToString(hasher.Sum(nil))
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext == "" {
		ext = ".txt"
	}
	return shaHex + ext, shaHex
}

// storeToLocal streams the upload into the local documents directory, named
// by its content hash so repeat uploads converge on one file.
func storeToLocal(r io.Reader, fh *multipart.FileHeader, hasher hash.Hash) (string, string, error) {
	baseDir := filepath.Join(config.Cfg.Paths.StorageDir, "documents")
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create storage dir: %w", err)
	}

	tmpFile, err := os.CreateTemp(baseDir, "upload-*.tmp")
	if err != nil {
		return "", "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		tmpFile.Close()
		_ = os.Remove(tmpFile.Name())
	}()

	if _, err := io.Copy(tmpFile, r); err != nil {
		return "", "", fmt.Errorf("write file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", "", fmt.Errorf("close file: %w", err)
	}

	finalName, shaHex := storedName(fh, hasher)
	finalPath := filepath.Join(baseDir, finalName)
	if err := os.Rename(tmpFile.Name(), finalPath); err != nil {
		return "", "", fmt.Errorf("finalize file: %w", err)
	}
	return finalPath, shaHex, nil
}

// storeToS3 buffers the upload to a temp file while hashing, then puts the
// object under documents/<sha><ext> in the configured bucket.
func storeToS3(r io.Reader, fh *multipart.FileHeader, hasher hash.Hash) (string, string, error) {
	client, err := s3client.GetClient()
	if err != nil {
		return "", "", fmt.Errorf("s3 client: %w", err)
	}

	ctx := context.Background()
	bucket := config.Cfg.S3.Bucket
	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)}); err != nil {
		_, crtErr := client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)})
		if crtErr != nil {
			var owned *s3types.BucketAlreadyOwnedByYou
			if !errors.As(crtErr, &owned) {
				return "", "", fmt.Errorf("create bucket: %w", crtErr)
			}
		}
	}

	tmp, err := os.CreateTemp("", "s3-upload-*.tmp")
	if err != nil {
		return "", "", fmt.Errorf("tempfile: %w", err)
	}
	defer func() {
		tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		return "", "", fmt.Errorf("stream copy: %w", err)
	}

	finalName, shaHex := storedName(fh, hasher)
	key := "documents/" + finalName

	if _, err := tmp.Seek(0, 0); err != nil {
		return "", "", fmt.Errorf("seek: %w", err)
	}
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        tmp,
		ContentType: aws.String(contentTypeFor(fh.Filename)),
	})
	if err != nil {
		return "", "", fmt.Errorf("put object: %w", err)
	}

	return fmt.Sprintf("s3://%s/%s", bucket, key), shaHex, nil
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "text/plain"
	}
}
