package service

import (
	a "avekl/folio-api/aws"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Folders an upload may land in. Keys outside these prefixes are
// never written.
const (
	FolderAvatars = "avatars"
)

// Uploader is what the handlers see of avatar persistence.
type Uploader interface {
	Do(r io.Reader, contentType, userID string) (string, error)
}

// AvatarUploader pushes profile images into the bucket. Avatars are
// small so a single PutObject covers the whole upload path.
type AvatarUploader struct {
	S3 *a.S3Client
}

func NewAvatarUploader(s *a.S3Client) *AvatarUploader {
	return &AvatarUploader{S3: s}
}

// Do uploads an avatar for userID and returns its public URL.
// Re-registering the same key overwrites the old object, which is the
// behavior we want for avatar replacement.
func (u *AvatarUploader) Do(r io.Reader, contentType, userID string) (string, error) {
	ext := "jpg"
	if contentType == "image/png" {
		ext = "png"
	}

	key := fmt.Sprintf("%s/%s.%s", FolderAvatars, userID, ext)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	zap.L().Debug("Uploading avatar", zap.String("key", key))

	_, err := u.S3.C.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       u.S3.Bucket,
		Key:          aws.String(key),
		Body:         r,
		CacheControl: aws.String("public, max-age=31536000, immutable"),
		ContentType:  aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar, %w", err)
	}

	base := strings.TrimSuffix(viper.GetString("s3.public_url"), "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", *u.S3.Bucket, viper.GetString("s3.region"))
	}

	return base + "/" + key, nil
}
