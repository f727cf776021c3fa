/*
 * Copyright (c) 2023, Dana Burkart <dana.burkart@gmail.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package store

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanName(t *testing.T) {
	tt := []struct {
		in, want string
	}{
		{"sales.csv", "sales.csv"},
		{"../../etc/passwd", "passwd"},
		{"/abs/path/data.feather", "data.feather"},
		{`C:\Users\me\sales.csv`, "sales.csv"},
		{"dir/", "dir"},
	}

	for _, tc := range tt {
		got, err := CleanName(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}

	for _, bad := range []string{"", ".", "..", "/", ".hidden"} {
		_, err := CleanName(bad)
		assert.True(t, errors.Is(err, ErrInvalidName), bad)
	}
}

func TestDecodeDataURL(t *testing.T) {
	payload := "region,revenue\nEast,100\n"
	url := "data:text/csv;base64," + base64.StdEncoding.EncodeToString([]byte(payload))

	data, mime, err := DecodeDataURL(url)
	require.NoError(t, err)
	assert.Equal(t, payload, string(data))
	assert.Equal(t, "text/csv", mime)

	data, mime, err = DecodeDataURL("data:,a%2Cb")
	require.NoError(t, err)
	assert.Equal(t, "a,b", string(data))
	assert.Equal(t, "text/plain", mime)

	for _, bad := range []string{"text/csv;base64,AAAA", "data:text/csv;base64", "data:;base64,!!!"} {
		_, _, err := DecodeDataURL(bad)
		assert.True(t, errors.Is(err, ErrBadDataURL), bad)
	}
}

func TestLocal(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "dataframes")

	s, err := NewLocal(dir)
	require.NoError(t, err)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)

	name, err := s.Put(ctx, "../b.csv", strings.NewReader("x\n1\n"))
	require.NoError(t, err)
	assert.Equal(t, "b.csv", name)

	_, err = s.Put(ctx, "a.csv", strings.NewReader("x\n1\n2\n"))
	require.NoError(t, err)

	// Replacing keeps a single entry.
	_, err = s.Put(ctx, "b.csv", strings.NewReader("y\n3\n"))
	require.NoError(t, err)

	list, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a.csv", list[0].Name)
	assert.Equal(t, int64(6), list[0].Size)
	assert.Equal(t, "6 B", list[0].HumanSize())
	assert.Equal(t, "b.csv", list[1].Name)

	r, err := s.Get(ctx, "b.csv")
	require.NoError(t, err)
	data, _ := io.ReadAll(r)
	r.Close()
	assert.Equal(t, "y\n3\n", string(data))

	_, err = s.Get(ctx, "missing.csv")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = os.Stat(filepath.Join(filepath.Dir(dir), "b.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = s.Put(ctx, "sales.csv", strings.NewReader("region,revenue\nEast,100\nWest,80\n"))
	require.NoError(t, err)

	ds, err := Load(ctx, s, "sales.csv")
	require.NoError(t, err)
	assert.Equal(t, 2, ds.NumRows())

	ds, err = Load(ctx, s, "notes.txt")
	require.NoError(t, err)
	assert.True(t, ds.IsEmpty())

	_, err = Load(ctx, s, "other.csv")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New(context.Background(), Config{Backend: "ftp"})
	assert.True(t, errors.Is(err, ErrUnknownBackend))
}

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	now     time.Time
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte), now: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	out := &s3.ListObjectsV2Output{}
	for _, k := range keys {
		out.Contents = append(out.Contents, types.Object{
			Key:          aws.String(k),
			Size:         aws.Int64(int64(len(f.objects[k]))),
			LastModified: aws.Time(f.now),
		})
	}
	return out, nil
}

func TestBucket(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	fake.objects["other/x.csv"] = []byte("x\n")
	fake.objects["uploads/nested/y.csv"] = []byte("y\n")

	b := NewBucket(fake, "data", "/uploads/")

	name, err := b.Put(ctx, "tmp/z.csv", strings.NewReader("z\n1\n"))
	require.NoError(t, err)
	assert.Equal(t, "z.csv", name)
	assert.Contains(t, fake.objects, "uploads/z.csv")

	_, err = b.Put(ctx, "a.csv", strings.NewReader("a\n"))
	require.NoError(t, err)

	list, err := b.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a.csv", list[0].Name)
	assert.Equal(t, "z.csv", list[1].Name)
	assert.Equal(t, int64(4), list[1].Size)
	assert.Equal(t, fake.now, list[1].ModTime)

	r, err := b.Get(ctx, "z.csv")
	require.NoError(t, err)
	data, _ := io.ReadAll(r)
	assert.Equal(t, "z\n1\n", string(data))

	_, err = b.Get(ctx, "nope.csv")
	assert.True(t, errors.Is(err, ErrNotFound))
}
