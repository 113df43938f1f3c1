// Package resilience retries transient failures with capped exponential
// backoff.
//
//	db, err := resilience.Retry(ctx, resilience.Backoff{Attempts: 5}, func(ctx context.Context, attempt int) (*gorm.DB, error) {
//	    return gorm.Open(dialector, cfg)
//	})
package resilience
