// Package ratelimit paces requests against a remote API.
//
// The default strategy is batch-granular: Batches splits the work into
// contiguous groups and Batcher.Pause is called between two groups, so a
// batch of 20 followed by a one second pause caps traffic at 20 requests per
// second. Requests inside a batch are not spread out.
//
// TokenBucket is the alternative for callers that want to wait before each
// request instead. A bucket with the batch size as capacity and the batch
// delay as refill period keeps the same aggregate ceiling.
//
//	b := ratelimit.NewBatcher(20, time.Second)
//	for i, batch := range ratelimit.Batches(items, b.Size()) {
//	    if i > 0 {
//	        if err := b.Pause(ctx); err != nil {
//	            return err
//	        }
//	    }
//	    process(batch)
//	}
package ratelimit
