// Package resource implements global limits for segment loading and search.
//
// The Controller manages three resource types:
//
//   - Memory: track and limit memory held by loaded segments and cached match
//     sets (TryAcquireMemory is non-blocking, AcquireMemory waits)
//   - Concurrency: limit the number of segments processed at once
//   - IO: rate-limit segment reads and uploads
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:      1 << 30,
//	    MaxConcurrentSegments: 4,
//	    IOLimitBytesPerSec:    100 << 20,
//	})
//
//	if err := rc.AcquireWorker(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseWorker()
//
//	r := resource.NewRateLimitedReader(ctx, blobReader, rc)
//
// All Controller methods are safe for concurrent use and handle a nil
// Controller as "no limits".
package resource
