package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/foodgram/backend/config"
)

// ImageService stores uploaded recipe images in S3.
type ImageService struct {
	s3Config *config.S3Config
}

func NewImageService(s3Config *config.S3Config) *ImageService {
	return &ImageService{s3Config: s3Config}
}

// UploadBase64 decodes a "data:image/<ext>;base64,<payload>" URI, uploads
// the bytes and returns the public URL.
func (s *ImageService) UploadBase64(ctx context.Context, data string) (string, error) {
	raw, ext, err := DecodeBase64Image(data)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("recipe-images/%s.%s", uuid.New().String(), ext)
	_, err = s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(raw),
		ContentType: aws.String("image/" + ext),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key), nil
}

// DecodeBase64Image splits a data URI into its decoded bytes and extension.
func DecodeBase64Image(data string) ([]byte, string, error) {
	if !strings.HasPrefix(data, "data:image") {
		return nil, "", validationErr("image", "not a base64 image data URI")
	}
	header, payload, found := strings.Cut(data, ";base64,")
	if !found {
		return nil, "", validationErr("image", "malformed data URI")
	}
	ext := strings.TrimPrefix(strings.TrimPrefix(header, "data:image"), "/")
	if ext == "" {
		ext = "png"
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", validationErr("image", "invalid base64 payload")
	}
	return raw, ext, nil
}
