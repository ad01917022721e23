// Package httputil provides HTTP helpers for fetching graph documents.
//
// # Retry
//
// [Retry] wraps an operation with retries and exponential backoff. Only
// errors wrapped in [RetryableError] are retried:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    defer resp.Body.Close()
//	    return httputil.CheckResponse(resp)
//	})
//
// [CheckResponse] classifies responses: 5xx and 429 are retryable, other
// non-2xx statuses are permanent failures.
package httputil
