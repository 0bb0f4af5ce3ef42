package backup

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubAWS(t *testing.T) (*[]s3.Options, *[]*s3.PutObjectInput, *[]string) {
	t.Helper()

	origLoad, origNew, origPut, origNow := loadDefaultAWSConfig, newS3ClientFromConfig, putObject, now
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig, putObject, now = origLoad, origNew, origPut, origNow
	})

	var clientOpts []s3.Options
	var puts []*s3.PutObjectInput
	var bodies []string

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error) {
		var lo config.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		return aws.Config{Region: lo.Region, Credentials: lo.Credentials}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		o := s3.Options{Region: cfg.Region, Credentials: cfg.Credentials}
		for _, fn := range optFns {
			fn(&o)
		}
		clientOpts = append(clientOpts, o)
		return s3.New(o)
	}
	putObject = func(_ *s3.Client, _ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		b, err := io.ReadAll(in.Body)
		require.NoError(t, err)
		puts = append(puts, in)
		bodies = append(bodies, string(b))
		return &s3.PutObjectOutput{}, nil
	}
	now = func() time.Time { return time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC) }

	return &clientOpts, &puts, &bodies
}

func TestNew_RequiresBucket(t *testing.T) {
	_, err := New(context.Background(), Config{}, nil)
	require.ErrorIs(t, err, ErrNoBucket)
}

func TestNew_AppliesEndpointAndCredentials(t *testing.T) {
	opts, _, _ := stubAWS(t)

	_, err := New(context.Background(), Config{
		Bucket:    "journals",
		Region:    "eu-north-1",
		Endpoint:  "http://127.0.0.1:9000/",
		AccessKey: "admin",
		SecretKey: "secret",
	}, nil)
	require.NoError(t, err)

	require.Len(t, *opts, 1)
	o := (*opts)[0]
	assert.Equal(t, "eu-north-1", o.Region)
	require.NotNil(t, o.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000/", *o.BaseEndpoint)
	assert.True(t, o.UsePathStyle)

	creds, err := o.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin", creds.AccessKeyID)
}

func TestNew_NoEndpointKeepsDefaults(t *testing.T) {
	opts, _, _ := stubAWS(t)

	_, err := New(context.Background(), Config{Bucket: "journals"}, nil)
	require.NoError(t, err)

	o := (*opts)[0]
	assert.Nil(t, o.BaseEndpoint)
	assert.False(t, o.UsePathStyle)
}

func TestNew_LoadConfigError(t *testing.T) {
	stubAWS(t)
	loadDefaultAWSConfig = func(context.Context, ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, assert.AnError
	}

	_, err := New(context.Background(), Config{Bucket: "journals"}, nil)
	require.ErrorIs(t, err, assert.AnError)
}

func TestObjectKey(t *testing.T) {
	at := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	uuidRe := `[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`

	assert.Regexp(t, regexp.MustCompile(`^diary\.txt/2024/03/05/`+uuidRe+`$`), ObjectKey("", "/tmp/x/diary.txt", at))
	assert.Regexp(t, regexp.MustCompile(`^backups/diary\.txt/2024/03/05/`+uuidRe+`$`), ObjectKey("backups", "diary.txt", at))
	assert.NotEqual(t, ObjectKey("", "a", at), ObjectKey("", "a", at))
}

func TestUpload_PutsFileContents(t *testing.T) {
	_, puts, bodies := stubAWS(t)

	p := filepath.Join(t.TempDir(), "diary.txt")
	require.NoError(t, os.WriteFile(p, []byte("2024-03-05=abc\n"), 0o600))

	u, err := New(context.Background(), Config{Bucket: "journals", Prefix: "home"}, nil)
	require.NoError(t, err)

	key, err := u.Upload(context.Background(), p)
	require.NoError(t, err)

	require.Len(t, *puts, 1)
	in := (*puts)[0]
	assert.Equal(t, "journals", *in.Bucket)
	assert.Equal(t, key, *in.Key)
	assert.Contains(t, key, "home/diary.txt/2024/03/05/")
	assert.Equal(t, "2024-03-05=abc\n", (*bodies)[0])
}

func TestUpload_Errors(t *testing.T) {
	stubAWS(t)

	u, err := New(context.Background(), Config{Bucket: "journals"}, nil)
	require.NoError(t, err)

	_, err = u.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	require.ErrorIs(t, err, os.ErrNotExist)

	putObject = func(*s3.Client, context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return nil, assert.AnError
	}
	p := filepath.Join(t.TempDir(), "diary.txt")
	require.NoError(t, os.WriteFile(p, nil, 0o600))

	err = u.AfterSave(context.Background(), p)
	require.ErrorIs(t, err, assert.AnError)
}
