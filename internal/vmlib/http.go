package vmlib

import (
	"io"
	"strings"
	"time"

	retryablehttp "github.com/hashicorp/go-retryablehttp"

	"github.com/yasniy-lang/yasniy/internal/errors"
	"github.com/yasniy-lang/yasniy/internal/value"
)

// sharedClient is a single process-wide HTTP client with a 30-second
// timeout, shared across all VMs. go-retryablehttp's default backoff
// and retry policy applies, with at most 2 retries per request.
var sharedClient = newSharedClient()

func newSharedClient() *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = 2
	c.HTTPClient.Timeout = 30 * time.Second
	c.Logger = nil // silence retryablehttp's default stdlib logger
	return c
}

// HTTPGet implements `http_get(url)`, returning `{status, ok, body}`.
func HTTPGet(url value.Value) (value.Value, error) {
	resp, err := sharedClient.Get(url.AsString())
	if err != nil {
		return value.Value{}, errors.RuntimeError("http_get: "+err.Error(), err)
	}
	defer resp.Body.Close()
	return readHTTPResult(resp.StatusCode, resp.Body)
}

// HTTPPost implements `http_post(url, body)`, returning `{status, ok, body}`.
func HTTPPost(url, body value.Value) (value.Value, error) {
	req, err := retryablehttp.NewRequest("POST", url.AsString(), strings.NewReader(body.AsString()))
	if err != nil {
		return value.Value{}, errors.RuntimeError("http_post: "+err.Error(), err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := sharedClient.Do(req)
	if err != nil {
		return value.Value{}, errors.RuntimeError("http_post: "+err.Error(), err)
	}
	defer resp.Body.Close()
	return readHTTPResult(resp.StatusCode, resp.Body)
}

func readHTTPResult(status int, body io.Reader) (value.Value, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return value.Value{}, errors.RuntimeError("http: failed to read response body", err)
	}
	d := value.NewDict()
	d.Set(value.StringValue("status"), value.IntValue(int64(status)))
	d.Set(value.StringValue("ok"), value.BoolValue(status >= 200 && status < 300))
	d.Set(value.StringValue("body"), value.StringValue(string(data)))
	return value.DictValue(d), nil
}
