// Package logger wraps zerolog with the service's field names.
//
// Loggers are scoped by component and pick up the request ID carried in a
// context, so every stage of one request logs under the same ID:
//
//	log := base.WithComponent("pipeline").WithContext(ctx)
//	log.Info("stage finished", logger.DurationFields("transcode", d))
package logger
