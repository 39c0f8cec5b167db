// Package bootstrap runs a service from validated config to graceful stop:
// logger setup, components started in registration order, a startup
// summary, signal handling and shutdown hooks.
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	_ = app.Register(storageComponent, serverComponent)
//	app.OnStop(telemetry.Stop)
//	return app.Run(ctx)
package bootstrap
