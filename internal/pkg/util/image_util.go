package util

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/go-resty/resty/v2"
)

var ErrInvalidImage = errors.New("invalid image")

const maxImageBytes = 10 << 20

// IsRemoteImage 判断是否为 http(s) 链接
func IsRemoteImage(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// DecodeBase64Image 支持 data URI 与纯 base64 两种形式
func DecodeBase64Image(src string) ([]byte, error) {
	if idx := strings.Index(src, ";base64,"); strings.HasPrefix(src, "data:") && idx > 0 {
		src = src[idx+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 || len(data) > maxImageBytes {
		return nil, ErrInvalidImage
	}
	return data, nil
}

// FetchRemoteImage 拉取远程图片
func FetchRemoteImage(ctx context.Context, client *resty.Client, url string) ([]byte, error) {
	resp, err := client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: fetch %s status %d", ErrInvalidImage, url, resp.StatusCode())
	}
	data := resp.Body()
	if len(data) == 0 || len(data) > maxImageBytes {
		return nil, ErrInvalidImage
	}
	if !strings.HasPrefix(resp.Header().Get("Content-Type"), "image") {
		return nil, ErrInvalidImage
	}
	return data, nil
}

// NormalizeImage 解码并等比缩放到 maxSide 以内，统一编码为 JPEG
func NormalizeImage(data []byte, maxSide int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	if maxSide > 0 {
		b := img.Bounds()
		if b.Dx() > maxSide || b.Dy() > maxSide {
			img = imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
		}
	}

	var buf bytes.Buffer
	if err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ImageSize 返回图片宽高
func ImageSize(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}
