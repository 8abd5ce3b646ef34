// Package media stores uploaded images with an external image host.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Uploader stores an image and returns its public URL.
type Uploader interface {
	UploadCover(ctx context.Context, ownerID primitive.ObjectID, file io.Reader) (string, error)
}

const coverFolder = "quill/covers"

type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryUploader builds an uploader from a cloudinary:// URL.
func NewCloudinaryUploader(cloudinaryURL string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config: %w", err)
	}
	return &CloudinaryUploader{cld: cld}, nil
}

func (u *CloudinaryUploader) UploadCover(ctx context.Context, ownerID primitive.ObjectID, file io.Reader) (string, error) {
	params := uploader.UploadParams{
		Folder:         coverFolder,
		PublicID:       ownerID.Hex() + "_" + time.Now().Format("20060102150405"),
		Transformation: "c_limit,w_1600,q_auto",
	}

	result, err := u.cld.Upload.Upload(ctx, file, params)
	if err != nil {
		return "", fmt.Errorf("upload cover: %w", err)
	}
	if result.Error.Message != "" {
		return "", errors.New("upload cover: " + result.Error.Message)
	}
	return result.SecureURL, nil
}
