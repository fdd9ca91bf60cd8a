// Package lifecycle runs the ingest loop and tracks its state.
//
// [Agent] reads rows from a source.Reader, groups them with a
// batch.Batcher, hands each batch to an [Applier] (normally a frame), then
// publishes a snapshot through a sender.Sender and persists the read
// cursor. When the reader is caught up the agent sleeps until the poll
// interval elapses or a wakeup arrives from a source.Watcher.
//
// [DefaultManager] is the state machine wrapped around the agent:
//
//   - Stopped -> Starting
//   - Starting -> Running, Stopping, Crashed
//   - Running -> Stopping, Crashed
//   - Stopping -> Stopped, Crashed
//   - Crashed -> Starting
//
// # Usage
//
//	manager := lifecycle.NewManager(logger, emitter)
//	if err := manager.TransitionTo(lifecycle.StateStarting, "start"); err != nil {
//	    return err
//	}
//
//	agent := lifecycle.NewAgent(cfg, reader, applier, snd, repo, logger, events)
//	manager.AddWorker()
//	go func() {
//	    defer manager.WorkerDone()
//	    _ = agent.Run(ctx)
//	}()
//
// # Version
//
// Current version: 2.0.0
// Minimum compatible version: 2.0.0
package lifecycle
