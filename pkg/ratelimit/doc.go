// Package ratelimit paces outgoing GitHub requests on the client side.
//
// GitHub enforces its own quota and answers 403 once it is spent; the
// request layer already waits out those windows. The pacer here is an
// optional second line that spreads requests evenly so long runs hit the
// upstream quota less often.
//
// A Limiter built from a zero requests-per-minute value never blocks.
//
// Usage:
//
//	limiter := ratelimit.New(30, 1) // 30 requests per minute, no bursts
//	if err := limiter.Wait(ctx); err != nil {
//	    return err
//	}
package ratelimit
