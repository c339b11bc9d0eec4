package providers

import (
	"context"
	"errors"
	"io"
	"net/http"
)

// maxBodyBytes caps how much of a provider response is read into memory.
const maxBodyBytes = 1 << 20

var errNoHTTPClient = errors.New("http client not configured")

// doRequest executes exactly one HTTP request bound to ctx and returns the
// status code with the (bounded) body. There are no retries: any error
// here means no usable response was received.
func doRequest(
	ctx context.Context,
	client *http.Client,
	buildRequest func() (*http.Request, error),
) (int, []byte, error) {
	if client == nil {
		return 0, nil, errNoHTTPClient
	}
	if ctx.Err() != nil {
		return 0, nil, ctx.Err()
	}

	req, err := buildRequest()
	if err != nil {
		return 0, nil, err
	}

	// Ensure the request obeys context cancellation.
	req = req.WithContext(ctx)

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}
