// Package storage uploads card images to S3-compatible blob storage.
package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type Storage struct {
	client   *s3.Client
	bucket   string
	endpoint string
}

func New() (*Storage, error) {
	endpoint := os.Getenv("AWS_ENDPOINT_URL_S3")
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	bucket := os.Getenv("BUCKET_NAME")

	if endpoint == "" || accessKey == "" || secretKey == "" || bucket == "" {
		return nil, fmt.Errorf("missing S3 configuration")
	}

	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &Storage{client: client, bucket: bucket, endpoint: endpoint}, nil
}

// Upload uploads a file and returns the public URL
func (s *Storage) Upload(ctx context.Context, file io.Reader, contentType string, ext string) (string, error) {
	key := fmt.Sprintf("cards/%s%s", uuid.New().String(), ext)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key), nil
}

// UploadDataURI decodes an inline-encoded image and uploads it.
func (s *Storage) UploadDataURI(ctx context.Context, dataURI string) (string, error) {
	data, contentType, ext, err := ParseDataURI(dataURI)
	if err != nil {
		return "", err
	}
	return s.Upload(ctx, bytes.NewReader(data), contentType, ext)
}

// Delete removes a file from storage
func (s *Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

// IsDataURI reports whether the image reference is inline-encoded bytes
// rather than a stable URL.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// ParseDataURI splits a "data:<mime>;base64,<payload>" string into raw
// bytes, content type, and a file extension for the object key.
func ParseDataURI(s string) (data []byte, contentType string, ext string, err error) {
	if !IsDataURI(s) {
		return nil, "", "", fmt.Errorf("not a data URI")
	}

	rest := strings.TrimPrefix(s, "data:")
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", "", fmt.Errorf("malformed data URI")
	}

	contentType = header
	if mime, found := strings.CutSuffix(header, ";base64"); found {
		contentType = mime
		data, err = base64.StdEncoding.DecodeString(payload)
	} else {
		// Unencoded payloads are rare for images but legal.
		data = []byte(payload)
	}
	if err != nil {
		return nil, "", "", err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	switch contentType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	case "image/gif":
		ext = ".gif"
	case "image/webp":
		ext = ".webp"
	}

	return data, contentType, ext, nil
}
