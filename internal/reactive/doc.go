// Package reactive provides the observer plumbing the dashboard state is
// built on.
//
// All state mutations happen on a single Loop goroutine. A Field holds a
// named value and notifies its subscribers synchronously, in subscription
// order, whenever Set changes the value. An Event is a value-less signal that
// notifies on every Fire. Consumers that must not write a field receive a Ref
// (read-only view) instead of the field itself.
//
// # Wiring
//
//	loop := reactive.NewLoop(logger)
//	_ = loop.Start(ctx)
//
//	busy := reactive.NewField("busy", false)
//	unsubscribe := reactive.Mirror(busy.Ref(), func(b bool) {
//	    fmt.Println("busy:", b)
//	})
//	defer unsubscribe()
//
//	_ = loop.Do(ctx, func() { busy.Set(true) })
//
// Long-running work must not block the loop: run it on its own goroutine and
// hand the result back with Loop.Post.
package reactive
