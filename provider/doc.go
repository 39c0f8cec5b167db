// Package provider defines the shape shared by the pipeline's swappable
// backends: a named RequestResponse provider, a factory registry per stage,
// and composable middleware.
//
// Each stage package (transcoding, transcription, translation, synthesis)
// registers its backends in a Registry and selects one by configured name.
// Cross-cutting behavior is layered with Chain:
//
//	stage := provider.Chain(
//	    provider.WithLogging[In, Out](log, "translate"),
//	    provider.WithMetrics[In, Out](metrics, "translate"),
//	    provider.WithTracing[In, Out]("translation"),
//	    provider.WithTimeout[In, Out]("translate", 30*time.Second),
//	    provider.WithResilience[In, Out](provider.ResilienceConfig{CircuitBreaker: &cb}),
//	)(backend)
//
// Providers needing setup or teardown implement Initializable or Closeable.
package provider
