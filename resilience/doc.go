// Package resilience provides the two fault-isolation patterns the pipeline uses:
//
//   - Bulkhead: bounds concurrent access to a resource. The recognizer runs
//     behind a one-slot bulkhead so inference on the shared model is serialized.
//   - CircuitBreaker: fails fast while an upstream (the translation service)
//     keeps failing, so requests drop straight into their fallback.
//
//	bh := resilience.NewBulkhead(resilience.DefaultBulkheadConfig("recognizer"))
//	text, err := resilience.ExecuteWithResult(ctx, bh, func() (string, error) {
//	    return model.Transcribe(ctx, path)
//	})
package resilience
