package utils

import (
	"fmt"
	"net/http"
	"time"
)

// retryDelayUnit is the base delay between attempts; overridable in tests.
var retryDelayUnit = time.Second

const httpRetryMaxAttempts = 3

// DoRequestWithRetry issues req up to httpRetryMaxAttempts times, retrying
// on 5xx responses with a doubling delay. A transport-level error (e.g. the
// request's context being cancelled mid-sleep) aborts immediately.
func DoRequestWithRetry(client *http.Client, req *http.Request) (*http.Response, error) {
	var resp *http.Response
	var err error

	for attempt := 1; attempt <= httpRetryMaxAttempts; attempt++ {
		resp, err = client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 500 {
			return resp, nil
		}
		if attempt == httpRetryMaxAttempts {
			return resp, fmt.Errorf("request failed after %d attempts: status %d", attempt, resp.StatusCode)
		}

		resp.Body.Close()
		delay := retryDelayUnit * time.Duration(1<<(attempt-1))
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(delay):
		}
	}

	return resp, err
}
