package s3store

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/filekeeper/internal/objectstore"
)

type fakeObject struct {
	body        []byte
	contentType string
	meta        map[string]string
}

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]*fakeObject
	keys    []string

	putErr  error
	onPut   func(in *s3.PutObjectInput)
	copyIn  *s3.CopyObjectInput
	pageLen int
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: map[string]*fakeObject{}} }

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	if f.onPut != nil {
		f.onPut(in)
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := aws.ToString(in.Key)
	if _, ok := f.objects[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.objects[key] = &fakeObject{body: data, contentType: aws.ToString(in.ContentType), meta: in.Metadata}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{Metadata: o.meta, ContentType: aws.String(o.contentType)}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := aws.ToString(in.Key)
	delete(f.objects, key)
	for i, k := range f.keys {
		if k == key {
			f.keys = append(f.keys[:i], f.keys[i+1:]...)
			break
		}
	}
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) CopyObject(_ context.Context, in *s3.CopyObjectInput, _ ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.copyIn = in
	o := f.objects[aws.ToString(in.Key)]
	o.meta = in.Metadata
	o.contentType = aws.ToString(in.ContentType)
	return &s3.CopyObjectOutput{}, nil
}

// ListObjectsV2 pages through keys pageLen at a time using the key index as
// continuation token.
func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matching []string
	for _, k := range f.keys {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			matching = append(matching, k)
		}
	}

	start := 0
	if in.ContinuationToken != nil {
		for i, k := range matching {
			if k == *in.ContinuationToken {
				start = i
			}
		}
	}
	end := len(matching)
	if f.pageLen > 0 && start+f.pageLen < end {
		end = start + f.pageLen
	}

	out := &s3.ListObjectsV2Output{}
	for _, k := range matching[start:end] {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k), Size: aws.Int64(int64(len(f.objects[k].body)))})
	}
	if end < len(matching) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(matching[end])
	}
	return out, nil
}

type fakePresigner struct {
	expires time.Duration
	err     error
}

func (p *fakePresigner) PresignGetObject(_ context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	if p.err != nil {
		return nil, p.err
	}
	var opts s3.PresignOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	p.expires = opts.Expires
	return &v4.PresignedHTTPRequest{URL: "https://s3.test/" + aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key) + "?sig=1"}, nil
}

func newTestStore() (*Store, *fakeS3, *fakePresigner) {
	f := newFakeS3()
	p := &fakePresigner{}
	return newStore(f, p, "bucket", 0), f, p
}

func TestNew_AppliesConfig(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "eu-central-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		require.NotNil(t, c)
		return &s3.PresignClient{}
	}

	st, err := New(context.Background(), Config{
		Bucket:       "files",
		Region:       "eu-central-1",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		BaseEndpoint: "http://127.0.0.1:9000",
		UsePathStyle: true,
		URLExpiry:    time.Hour,
	})
	require.NoError(t, err)

	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
	assert.Equal(t, "files", st.bucket)
	assert.Equal(t, time.Hour, st.expiry)
}

func TestNew_LoadConfigError(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}

	_, err := New(context.Background(), Config{Bucket: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load-fail")
}

func TestStore_PutAndMetadata(t *testing.T) {
	st, f, _ := newTestStore()
	ctx := context.Background()

	// A non-seekable reader is buffered before upload.
	err := st.Put(ctx, "files/1_a.txt", io.NopCloser(strings.NewReader("hello")), -1, "text/plain")
	require.NoError(t, err)

	assert.Equal(t, []byte("hello"), f.objects["files/1_a.txt"].body)
	assert.Equal(t, "text/plain", f.objects["files/1_a.txt"].contentType)

	meta, err := st.Metadata(ctx, "files/1_a.txt")
	require.NoError(t, err)
	assert.Empty(t, meta)
}

func TestStore_PutError(t *testing.T) {
	st, f, _ := newTestStore()
	f.putErr = errors.New("access denied")

	err := st.Put(context.Background(), "k", strings.NewReader("x"), 1, "text/plain")
	require.EqualError(t, err, "access denied")
}

func TestStore_URL(t *testing.T) {
	st, _, p := newTestStore()

	u, err := st.URL(context.Background(), "files/1_a.txt")
	require.NoError(t, err)
	assert.Equal(t, "https://s3.test/bucket/files/1_a.txt?sig=1", u)
	assert.Equal(t, defaultURLExpiry, p.expires)

	p.err = errors.New("presign-fail")
	_, err = st.URL(context.Background(), "files/1_a.txt")
	require.EqualError(t, err, "presign-fail")
}

func TestStore_Delete(t *testing.T) {
	st, _, _ := newTestStore()
	ctx := context.Background()
	require.NoError(t, st.Put(ctx, "files/1_a.txt", strings.NewReader("a"), 1, "text/plain"))

	require.NoError(t, st.Delete(ctx, "files/1_a.txt"))

	err := st.Delete(ctx, "files/1_a.txt")
	require.ErrorIs(t, err, objectstore.ErrNotFound)
}

func TestStore_ListPaginates(t *testing.T) {
	st, f, _ := newTestStore()
	f.pageLen = 2
	ctx := context.Background()
	for _, k := range []string{"files/1_a", "files/2_b", "other/x", "files/3_c"} {
		require.NoError(t, st.Put(ctx, k, strings.NewReader("data"), 4, "text/plain"))
	}

	got, err := st.List(ctx, "files/")
	require.NoError(t, err)
	assert.Equal(t, []objectstore.Object{
		{Key: "files/1_a", Size: 4},
		{Key: "files/2_b", Size: 4},
		{Key: "files/3_c", Size: 4},
	}, got)
}

func TestStore_UpdateMetadataMerges(t *testing.T) {
	st, f, _ := newTestStore()
	ctx := context.Background()
	require.NoError(t, st.Put(ctx, "files/1_a b.png", strings.NewReader("a"), 1, "image/png"))
	f.objects["files/1_a b.png"].meta = map[string]string{"Description": "old", "originalname": "a b.png"}

	err := st.UpdateMetadata(ctx, "files/1_a b.png", objectstore.Metadata{"description": "new"})
	require.NoError(t, err)

	require.NotNil(t, f.copyIn)
	assert.Equal(t, types.MetadataDirectiveReplace, f.copyIn.MetadataDirective)
	assert.Equal(t, "bucket/files/1_a%20b.png", aws.ToString(f.copyIn.CopySource))
	assert.Equal(t, "image/png", aws.ToString(f.copyIn.ContentType))

	meta, err := st.Metadata(ctx, "files/1_a b.png")
	require.NoError(t, err)
	assert.Equal(t, objectstore.Metadata{"description": "new", "originalname": "a b.png"}, meta)
}

func TestStore_UpdateMetadataMissing(t *testing.T) {
	st, _, _ := newTestStore()

	err := st.UpdateMetadata(context.Background(), "files/nope", objectstore.Metadata{"description": "x"})
	require.ErrorIs(t, err, objectstore.ErrNotFound)
}
