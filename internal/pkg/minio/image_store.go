package minio

import (
	"CookingSecret/internal/pkg/util"
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

// ImageStore 菜谱图与头像的存储，上传内容为 base64 或远程链接，统一转为 JPEG
type ImageStore struct {
	client     *minio.Client
	bucket     string
	publicBase string
	maxSide    int
	http       *resty.Client
}

func NewImageStore(client *minio.Client, bucket, externalEndpoint string, maxSide, fetchTimeout int) *ImageStore {
	return &ImageStore{
		client:     client,
		bucket:     bucket,
		publicBase: fmt.Sprintf("https://%s/%s/", externalEndpoint, bucket),
		maxSide:    maxSide,
		http:       resty.New().SetTimeout(time.Duration(fetchTimeout) * time.Second),
	}
}

// Save 返回对象 key；src 已是本桶地址时直接取回 key
func (s *ImageStore) Save(ctx context.Context, prefix, src string) (string, error) {
	if src == "" {
		return "", nil
	}
	if strings.HasPrefix(src, s.publicBase) {
		return strings.TrimPrefix(src, s.publicBase), nil
	}

	var raw []byte
	var err error
	if util.IsRemoteImage(src) {
		raw, err = util.FetchRemoteImage(ctx, s.http, src)
	} else {
		raw, err = util.DecodeBase64Image(src)
	}
	if err != nil {
		return "", err
	}

	data, err := util.NormalizeImage(raw, s.maxSide)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s/%s.jpg", prefix, time.Now().Format("20060102"), uuid.NewString())
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "image/jpeg",
	})
	if err != nil {
		return "", errors.Wrap(err, "put image object")
	}
	return key, nil
}

func (s *ImageStore) Delete(ctx context.Context, key string) error {
	if key == "" || util.IsRemoteImage(key) {
		return nil
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrap(err, "remove image object")
	}
	return nil
}

// URL 对象 key 转公共访问地址
func (s *ImageStore) URL(key string) string {
	if key == "" || util.IsRemoteImage(key) {
		return key
	}
	return s.publicBase + key
}
