// Package photostore persists member photos captured at registration.
//
// Photos arrive as data URLs from the webcam or file picker. The inline
// store keeps them as-is on the member row; the S3 store uploads them and
// keeps only the object URL.
package photostore

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
)

// MaxPhotoBytes bounds a decoded photo.
const MaxPhotoBytes = 5 << 20

var (
	ErrNotDataURL   = errors.New("photo is not a data URL")
	ErrUnsupported  = errors.New("photo must be a JPEG, PNG or WebP image")
	ErrPhotoTooBig  = errors.New("photo exceeds 5 MB")
	ErrPhotoEncoded = errors.New("photo data is not valid base64")
)

// Store saves a photo and returns the value to keep on the member record.
type Store interface {
	Save(ctx context.Context, key, photo string) (string, error)
}

// Inline keeps photos on the record unchanged.
type Inline struct{}

// Save returns photo as given.
func (Inline) Save(_ context.Context, _ string, photo string) (string, error) {
	return photo, nil
}

// Image is a decoded data URL.
type Image struct {
	ContentType string
	Ext         string
	Data        []byte
}

var extensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// ParseDataURL decodes a base64 "data:image/...;base64," URL.
func ParseDataURL(s string) (Image, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return Image{}, ErrNotDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Image{}, ErrNotDataURL
	}
	contentType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return Image{}, ErrPhotoEncoded
	}
	ext, ok := extensions[strings.ToLower(contentType)]
	if !ok {
		return Image{}, ErrUnsupported
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxPhotoBytes+3 {
		return Image{}, ErrPhotoTooBig
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Image{}, ErrPhotoEncoded
	}
	if len(data) > MaxPhotoBytes {
		return Image{}, ErrPhotoTooBig
	}
	return Image{ContentType: strings.ToLower(contentType), Ext: ext, Data: data}, nil
}

// S3 uploads data-URL photos to a bucket.
type S3 struct {
	uploader s3manageriface.UploaderAPI
	bucket   string
}

// NewS3 creates an S3 store using the default AWS credential chain.
// PRE: bucket and region are non-empty
func NewS3(bucket, region string) (*S3, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return NewS3WithUploader(s3manager.NewUploader(sess), bucket), nil
}

// NewS3WithUploader creates an S3 store over an existing uploader.
func NewS3WithUploader(u s3manageriface.UploaderAPI, bucket string) *S3 {
	return &S3{uploader: u, bucket: bucket}
}

// Save uploads a data-URL photo under members/<key>.<ext> and returns its URL.
// Values that are already URLs, and empty values, pass through.
// PRE: key identifies the member
// POST: returned value is the object location for data URLs
func (s *S3) Save(ctx context.Context, key, photo string) (string, error) {
	if photo == "" || !strings.HasPrefix(photo, "data:") {
		return photo, nil
	}
	img, err := ParseDataURL(photo)
	if err != nil {
		return "", err
	}
	objectKey := fmt.Sprintf("members/%s.%s", key, img.Ext)
	out, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(img.Data),
		ContentType: aws.String(img.ContentType),
	})
	if err != nil {
		slog.Error("photo_upload_failed", "key", objectKey, "error", err)
		return "", fmt.Errorf("upload photo: %w", err)
	}
	slog.Info("photo_uploaded", "key", objectKey, "bytes", len(img.Data))
	return out.Location, nil
}
