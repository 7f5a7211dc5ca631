package storage

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/commutelog/api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketURL(t *testing.T) {
	assert.Equal(t, "https://pics.s3.eu-west-1.amazonaws.com",
		bucketURL(S3Config{Bucket: "pics", Region: "eu-west-1"}))
	assert.Equal(t, "http://minio:9000/pics",
		bucketURL(S3Config{Bucket: "pics", Endpoint: "http://minio:9000/"}))
}

func TestS3URLIsPresigned(t *testing.T) {
	client := s3.New(s3.Options{
		Region:       "us-east-1",
		Credentials:  credentials.NewStaticCredentialsProvider("key", "secret", ""),
		BaseEndpoint: aws.String("http://minio:9000"),
		UsePathStyle: true,
	})
	storage := &S3Storage{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		bucket:        "pics",
		publicURL:     "http://minio:9000/pics",
		presignExpiry: time.Hour,
	}

	url := storage.URL("abc.png")

	assert.True(t, strings.HasPrefix(url, "http://minio:9000/pics/abc.png?"), url)
	assert.Contains(t, url, "X-Amz-Signature=")
	assert.Contains(t, url, "X-Amz-Expires=3600")
}

func TestDetectContentTypeRewinds(t *testing.T) {
	content := testutil.PNG(t)
	rs := bytes.NewReader(content)

	contentType, err := detectContentType(rs)
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)

	rest, err := io.ReadAll(rs)
	require.NoError(t, err)
	assert.Equal(t, content, rest)
}
