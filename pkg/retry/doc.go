// Package retry implements the blocking retry loop used by the GitHub request layer.
//
// The loop is a small state machine. Each attempt ends in one of four states:
//
//   - Succeeded: the operation returned nil; the loop returns nil.
//   - Failed: the operation returned a non-retryable error; the loop returns it.
//   - RateLimited: the server refused with a reset time; the loop sleeps until
//     that time plus a padding and tries again.
//   - TransientFailure: the transport failed; the loop sleeps a fixed delay and
//     tries again.
//
// There is no attempt cap. The loop only gives up early when its context is
// cancelled. Time and sleeping go through a Clock so tests can substitute a
// FakeClock and assert on recorded sleeps.
//
//	err := retry.Do(ctx, func(ctx context.Context) error {
//		return client.attempt(ctx, req)
//	}, &retry.Config{
//		Clock:            retry.SystemClock{},
//		TransientDelay:   5 * time.Second,
//		RateLimitPadding: time.Second,
//		Logger:           log,
//	})
package retry
