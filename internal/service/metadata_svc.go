package service

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/valyala/fasthttp"
)

// MetadataService fetches display metadata (video titles) via the oEmbed
// endpoint. It only enriches notifications; every failure is tolerated.
type MetadataService struct {
	client  *fasthttp.Client
	baseURL string
}

func NewMetadataService(baseURL string) *MetadataService {
	return &MetadataService{
		client: &fasthttp.Client{
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		baseURL: baseURL,
	}
}

// VideoTitle returns the video's title, or "" when lookups are disabled or
// the lookup fails in any way.
func (m *MetadataService) VideoTitle(videoID string) (string, error) {
	if m.baseURL == "" {
		return "", nil
	}

	uri := fmt.Sprintf("%s?url=%s&format=json",
		m.baseURL, url.QueryEscape("https://youtu.be/"+videoID))

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(fasthttp.MethodGet)

	if err := m.client.DoTimeout(req, resp, 5*time.Second); err != nil {
		return "", err
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return "", fmt.Errorf("oembed status %d", resp.StatusCode())
	}

	var body struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", err
	}
	return body.Title, nil
}
