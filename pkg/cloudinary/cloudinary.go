package cloudinary

import (
	"context"
	"io"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
	"github.com/google/uuid"
)

// Source is an image input: either a URL that is already hosted remotely, or
// a local file to be uploaded.
type Source struct {
	URL  string
	File io.Reader
}

// Remote reports whether the source already lives at a public URL and needs
// no upload.
func (s Source) Remote() bool {
	return s.URL != ""
}

// Empty reports whether there is no image at all.
func (s Source) Empty() bool {
	return s.URL == "" && s.File == nil
}

// Client uploads images and returns their public URL. Sources that are
// already remote URLs are passed through untouched, without any API call.
type Client interface {
	Upload(ctx context.Context, src Source, folder string) (string, error)
}

// Eager transformation applied on upload (single string per SDK).
const imageEager = "q_auto,f_auto,w_800,c_fill"

var eagerAsyncFalse = false

type clientImpl struct {
	uploader *uploader.API
}

func (c *clientImpl) Upload(ctx context.Context, src Source, folder string) (string, error) {
	if src.Remote() {
		return src.URL, nil
	}
	publicID := "img_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	result, err := c.uploader.Upload(ctx, src.File, uploader.UploadParams{
		Folder:     folder,
		PublicID:   publicID,
		Eager:      imageEager,
		EagerAsync: &eagerAsyncFalse,
	})
	if err != nil {
		return "", err
	}
	return result.SecureURL, nil
}

// NewClientFromParams builds a Client from Cloudinary cloud name, API key,
// and secret.
func NewClientFromParams(cloudName, apiKey, apiSecret string) (Client, error) {
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	return &clientImpl{uploader: up}, nil
}
