// Package errors provides structured errors for the matching backend.
//
// Every failure carries a Code identifying what went wrong and a Category
// describing how it should be handled: surfaced to the caller with an HTTP
// status, or degraded locally to a deterministic fallback value. The service
// layer never retries; degradation policy is decided per call site.
//
// Example:
//
//	if job == nil {
//		return nil, errors.NotFound("job not found",
//			errors.WithMetadata("job_id", id))
//	}
package errors
