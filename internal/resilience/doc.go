// Package resilience provides reliability and fault tolerance patterns for
// the application. It governs how a caller's invocation of a fallible
// operation is retried, fenced, and explained; it never decides business
// policy itself.
//
// The package supports:
//   - Retry with exponential backoff and jitter (retry)
//   - Per-key circuit breakers over retry executions (circuitbreaker)
//   - Ordered fallback chains (fallback)
//
// Usage Example:
//
//	reg := circuitbreaker.NewRegistry()
//	outcome := circuitbreaker.Execute(ctx, reg, "profile-storage", retry.StoragePolicy(), func() (*Profile, error) {
//	    return store.LoadProfile(userID)
//	})
//
//	outcome := retry.Do(ctx, retry.DefaultPolicy(), func() (string, error) {
//	    return fetchSessionToken()
//	})
package resilience
