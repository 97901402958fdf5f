// Package httputil provides the HTTP plumbing for remote tree sources.
//
// [Fetch] downloads a document with automatic retry for transient
// failures:
//
//   - network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// Other 4xx responses fail immediately. Every request is reported to the
// registered [observability.HTTPHooks].
//
// [Retry] is the underlying loop and can wrap any operation whose transient
// failures are marked with [RetryableError]:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    return poll(ctx)
//	})
package httputil
