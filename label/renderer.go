package label

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// HTTPRenderer renders label HTML through an external service that takes
// the markup and viewport size and answers with an encoded image.
type HTTPRenderer struct {
	url    string
	client *http.Client
}

func NewHTTPRenderer(rendererURL string) *HTTPRenderer {
	return &HTTPRenderer{
		url:    rendererURL,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// RendererFromEnv returns the renderer configured by LABEL_RENDERER_URL,
// or nil when no render service is configured.
func RendererFromEnv() Renderer {
	rendererURL := strings.TrimSpace(os.Getenv("LABEL_RENDERER_URL"))
	if rendererURL == "" {
		return nil
	}
	return NewHTTPRenderer(rendererURL)
}

func (r *HTTPRenderer) Render(ctx context.Context, html string, width int, height int) (image.Image, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"html":   html,
		"width":  width,
		"height": height,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("render service returned %d: %s", resp.StatusCode, string(body))
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decoding rendered image: %w", err)
	}
	return img, nil
}
