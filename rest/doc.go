// Package rest provides the HTTP layer of the FerrisChat SDK: a small
// client with request/response interceptors, default headers, and a
// bounded retry loop driven by response status classification.
//
// Retries
//   - Transport failures (dial, TLS, timeout, body read) are never
//     retried here; they surface immediately as transport errors.
//   - 2xx responses return the body on the first attempt that produces
//     them.
//   - 4xx responses are terminal on the attempt that produces them.
//   - 5xx responses are retried until the second attempt, whose status
//     is then returned as data. An exhausted loop returns the last
//     observed status.
//   - Redirects are handled by the underlying transport, so 3xx
//     responses normally never reach classification; any status outside
//     the three classes above falls through like a 5xx.
//
// DoWithRetry applies the same classification but keeps the full
// response, honors 429 rate-limit buckets, and paces outbound calls;
// it is what the ferris package builds on. ExecuteWithRetry is the bare
// loop with none of that.
//
// Status-based outcomes are data, not errors: a 4xx or terminal 5xx is
// returned as an Outcome (or Response), never as an error value.
package rest
