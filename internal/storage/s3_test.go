package storage_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"restoran/internal/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func TestS3Uploader_Upload(t *testing.T) {
	client := new(mockS3)
	uploader := storage.NewS3UploaderWithClient(client, "menu-images", "ap-south-1")

	client.On("PutObject", mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		body, _ := io.ReadAll(in.Body)
		return aws.ToString(in.Bucket) == "menu-images" &&
			aws.ToString(in.Key) == "menu/1/naan.jpg" &&
			aws.ToString(in.ContentType) == "image/jpeg" &&
			string(body) == "jpeg-bytes"
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	url, err := uploader.Upload(context.Background(), "menu/1/naan.jpg", "image/jpeg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://menu-images.s3.ap-south-1.amazonaws.com/menu/1/naan.jpg", url)
	client.AssertExpectations(t)
}

func TestS3Uploader_UploadError(t *testing.T) {
	client := new(mockS3)
	uploader := storage.NewS3UploaderWithClient(client, "menu-images", "ap-south-1")
	client.On("PutObject", mock.Anything).Return(nil, errors.New("AccessDenied")).Once()

	_, err := uploader.Upload(context.Background(), "menu/1/naan.jpg", "image/jpeg", strings.NewReader("x"))
	assert.ErrorContains(t, err, "AccessDenied")
}
