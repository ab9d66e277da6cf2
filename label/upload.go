package label

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/pragadastech/wms-ai-py2/utils"
)

// SaveLabelImage uploads the rendered label to the label bucket and returns
// its public url.
func SaveLabelImage(ctx context.Context, objectName string, img image.Image) (string, error) {
	bucketName := os.Getenv("LABEL_GCS_BUCKET")
	if bucketName == "" {
		bucketName = os.Getenv("GCS_BUCKET")
	}
	if bucketName == "" {
		return "", errors.New("LABEL_GCS_BUCKET or GCS_BUCKET is required")
	}

	client, err := utils.GetGCSClient(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()

	wc := client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
	wc.ContentType = "image/png"
	wc.Metadata = map[string]string{
		"x-goog-acl": "public-read",
	}
	if err := png.Encode(wc, img); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucketName, objectName), nil
}
