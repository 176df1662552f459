// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package future provides a channel-backed Promise/Future pair used by the
// ledger stores to hand out asynchronous flush results. A Promise fulfills a
// Future exactly once; the Future's consumer awaits the value when needed.
//
// The producer side typically looks as follows:
//
//	promise, future := future.Create[error]()
//	go func() {
//	   promise.Fulfill(doFlush())
//	}()
//	return future
//
// If the result is already available, an immediate Future can be created
// using Immediate.
package future

// Promise represents the handle used to fulfill a Future.
type Promise[T any] struct {
	C chan<- T
}

// Future represents a placeholder for a value that will be available in the
// future. It can be awaited to retrieve the result once it is fulfilled.
type Future[T any] struct {
	C <-chan T
}

// Create initializes a new Promise and Future pair. The Promise can be used to
// fulfill the Future, while the Future can be awaited to retrieve the result
// once it is available.
func Create[T any]() (Promise[T], Future[T]) {
	ch := make(chan T, 1)
	return Promise[T]{C: ch}, Future[T]{C: ch}
}

// Immediate creates a Future that is already fulfilled with the given value.
// This is useful for scenarios where the result is already available and no
// asynchronous computation is needed.
func Immediate[T any](value T) Future[T] {
	ch := make(chan T, 1)
	ch <- value
	close(ch)
	return Future[T]{C: ch}
}

// Fulfill fulfills the Promise with the given value, making it available to
// any awaiting Future.
func (p Promise[T]) Fulfill(value T) {
	p.C <- value
	close(p.C)
}

// Await blocks until the Future is fulfilled and returns the contained value.
// Futures can only be consumed once.
func (f Future[T]) Await() T {
	return <-f.C
}
