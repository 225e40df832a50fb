package emotion

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/feelcast/feelcast/pkg/domain/interfaces"
	"github.com/feelcast/feelcast/pkg/domain/model/emotion"
	"github.com/feelcast/feelcast/pkg/domain/model/errs"
	"github.com/feelcast/feelcast/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

// HTTPClient calls a speech-to-emotion endpoint that reads the audio from the
// shared bucket by its locator.
type HTTPClient struct {
	endpoint string
	client   *http.Client
	apiKey   string
}

var _ interfaces.EmotionAnalyzer = &HTTPClient{}

type HTTPOption func(*HTTPClient)

func WithHTTPClient(client *http.Client) HTTPOption {
	return func(x *HTTPClient) {
		x.client = client
	}
}

// WithAPIKey sends key in the x-api-key header.
func WithAPIKey(key string) HTTPOption {
	return func(x *HTTPClient) {
		x.apiKey = key
	}
}

func NewHTTPClient(endpoint string, opts ...HTTPOption) *HTTPClient {
	x := &HTTPClient{
		endpoint: endpoint,
		client:   http.DefaultClient,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

type analyzeRequest struct {
	FileKey string `json:"fileKey"`
}

// maxErrorBody limits how much of an error response is kept in the error.
const maxErrorBody = 1024

func (x *HTTPClient) Analyze(ctx context.Context, locator string) (*emotion.Result, error) {
	body, err := json.Marshal(analyzeRequest{FileKey: locator})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal analyze request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, x.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create analyze request",
			goerr.TV(errs.EndpointKey, x.endpoint))
	}
	req.Header.Set("Content-Type", "application/json")
	if x.apiKey != "" {
		req.Header.Set("x-api-key", x.apiKey)
	}

	resp, err := x.client.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to call analysis endpoint",
			goerr.TV(errs.EndpointKey, x.endpoint),
			goerr.TV(errs.LocatorKey, locator))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, goerr.New("analysis endpoint returned error",
			goerr.TV(errs.EndpointKey, x.endpoint),
			goerr.TV(errs.LocatorKey, locator),
			goerr.TV(errs.HTTPStatusKey, resp.StatusCode),
			goerr.V("body", string(msg)))
	}

	var result emotion.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, goerr.Wrap(err, "failed to decode analysis response",
			goerr.TV(errs.EndpointKey, x.endpoint),
			goerr.TV(errs.LocatorKey, locator))
	}

	return &result, nil
}
