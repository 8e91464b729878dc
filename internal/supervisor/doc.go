// Package supervisor manages the lifecycle of the external gateway process.
//
// A Supervisor owns at most one gateway process at a time. It reads the
// gateway settings on every call, launches the executable in its own
// process group, streams stdout and stderr into the application log and
// watches for the process to exit. Exits that were not requested through
// Stop are reported as crashes; the supervisor never restarts the gateway
// on its own.
//
// Every running instance is served by three goroutines drawn from a
// three-slot worker pool: one per output stream and one health watcher.
// The pool is discarded on Stop and created again on the next start.
//
//	sup := supervisor.New(supervisor.Params{
//	    Config:   supervisor.Config{GracefulTimeout: 5 * time.Second},
//	    Settings: provider,
//	    Notifier: notifier,
//	    Log:      log,
//	})
//
//	status := sup.StartIfEnabled(ctx)
//	defer sup.Stop()
package supervisor
