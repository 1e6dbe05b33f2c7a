package photostore

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

type fakeUploader struct {
	input *s3manager.UploadInput
	body  []byte
	err   error
}

func (f *fakeUploader) Upload(in *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	return f.UploadWithContext(context.Background(), in, opts...)
}

func (f *fakeUploader) UploadWithContext(_ aws.Context, in *s3manager.UploadInput, _ ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3manager.UploadOutput{Location: "https://bucket.s3.amazonaws.com/" + aws.StringValue(in.Key)}, nil
}

func pngURL(data []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
}

func TestParseDataURL(t *testing.T) {
	img, err := ParseDataURL(pngURL([]byte("png-bytes")))
	if err != nil {
		t.Fatalf("ParseDataURL: %v", err)
	}
	if img.Ext != "png" || img.ContentType != "image/png" || string(img.Data) != "png-bytes" {
		t.Errorf("ParseDataURL = %+v", img)
	}

	tests := []struct {
		in   string
		want error
	}{
		{"https://example.com/a.png", ErrNotDataURL},
		{"data:image/png;base64", ErrNotDataURL},
		{"data:image/gif;base64,R0lG", ErrUnsupported},
		{"data:image/png,rawdata", ErrPhotoEncoded},
		{"data:image/png;base64,!!!", ErrPhotoEncoded},
	}
	for _, tt := range tests {
		if _, err := ParseDataURL(tt.in); !errors.Is(err, tt.want) {
			t.Errorf("ParseDataURL(%q) = %v, want %v", tt.in, err, tt.want)
		}
	}
}

func TestS3Save_UploadsDataURL(t *testing.T) {
	up := &fakeUploader{}
	store := NewS3WithUploader(up, "goodlife-photos")

	url, err := store.Save(context.Background(), "m42", pngURL([]byte("face")))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if url != "https://bucket.s3.amazonaws.com/members/m42.png" {
		t.Errorf("url = %q", url)
	}
	if aws.StringValue(up.input.Bucket) != "goodlife-photos" || aws.StringValue(up.input.ContentType) != "image/png" {
		t.Errorf("upload input = %+v", up.input)
	}
	if string(up.body) != "face" {
		t.Errorf("uploaded body = %q", up.body)
	}
}

func TestS3Save_PassesThroughURLs(t *testing.T) {
	up := &fakeUploader{}
	store := NewS3WithUploader(up, "b")
	for _, in := range []string{"", "https://cdn.example.com/p.jpg"} {
		got, err := store.Save(context.Background(), "m1", in)
		if err != nil || got != in {
			t.Errorf("Save(%q) = %q, %v", in, got, err)
		}
	}
	if up.input != nil {
		t.Error("no upload expected for non data URLs")
	}
}

func TestS3Save_UploadError(t *testing.T) {
	store := NewS3WithUploader(&fakeUploader{err: errors.New("access denied")}, "b")
	if _, err := store.Save(context.Background(), "m1", pngURL([]byte("x"))); err == nil {
		t.Fatal("expected upload error")
	}
}

func TestInlineSave(t *testing.T) {
	photo := pngURL([]byte("x"))
	got, err := Inline{}.Save(context.Background(), "m1", photo)
	if err != nil || got != photo {
		t.Errorf("Inline.Save = %q, %v", got, err)
	}
}
