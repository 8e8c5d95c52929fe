package backup

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.input = params
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestS3Archiver_UploadsUnderPrefix(t *testing.T) {
	putter := &fakePutter{}
	a := newS3Archiver(putter, "bucket", "/backups/")
	a.now = func() time.Time { return time.Unix(1700000000, 0) }

	key, err := a.Archive(context.Background(), "clients.csv", []byte("a,b\n"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "backups/1700000000000000000_"))
	assert.True(t, strings.HasSuffix(key, "_clients.csv"))
	require.NotNil(t, putter.input)
	assert.Equal(t, "bucket", aws.ToString(putter.input.Bucket))
	assert.Equal(t, key, aws.ToString(putter.input.Key))
	assert.Equal(t, "text/csv; charset=utf-8", aws.ToString(putter.input.ContentType))
	assert.Equal(t, "a,b\n", string(putter.body))
}

func TestS3Archiver_ClassifiesErrors(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want error
	}{
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"}, ErrAccessDenied},
		{"missing bucket", &smithy.GenericAPIError{Code: "NoSuchBucket", Message: "gone"}, ErrTargetMissing},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := newS3Archiver(&fakePutter{err: tc.err}, "bucket", "")
			_, err := a.Archive(context.Background(), "clients.csv", []byte("x"))
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)

			var backupErr *BackupError
			require.True(t, errors.As(err, &backupErr))
			assert.Equal(t, "Archive", backupErr.Op)
		})
	}
}

func TestS3Archiver_PassesThroughOtherErrors(t *testing.T) {
	boom := errors.New("connection reset")
	a := newS3Archiver(&fakePutter{err: boom}, "bucket", "")
	_, err := a.Archive(context.Background(), "clients.csv", []byte("x"))
	assert.ErrorIs(t, err, boom)
}

func TestNewS3Archiver_RequiresBucket(t *testing.T) {
	_, err := NewS3Archiver(S3Config{Region: "eu-west-1"})
	assert.Error(t, err)

	a, err := NewS3Archiver(S3Config{Bucket: "b", Endpoint: "http://localhost:9000", AccessKeyID: "k", SecretAccessKey: "s"})
	require.NoError(t, err)
	assert.Equal(t, "b", a.bucket)
}
