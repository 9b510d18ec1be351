// Package asyncfilters provides the filter core of a template engine that renders in either a
// synchronous or an asynchronous mode.
//
// Every filter is written once against Sequence, a uniform lazy sequence obtained from
// RenderContext.Iterate. In synchronous mode Iterate accepts slices, arrays, maps, strings and
// iter.Seq functions, and never suspends. In asynchronous mode it additionally accepts an
// AsyncSource, such as a ProducerFunc, which is consumed one element at a time, suspending on
// every fetch. Values implementing Awaitable are awaited before a filter sees them.
//
// The mode is decided once per render by the Environment and carried by the RenderContext;
// there is no global switch, so renders of both modes may run side by side.
//
// Sequence operations receive a context.Context. Canceling it stops the render and any producer
// feeding it. Producers report failure by calling their context.CancelCauseFunc with the cause,
// which then surfaces as the error of the render. Results are all or nothing: a failing render
// never returns partial output.
//
// Filters are lazy where they can be. first reads a single element and stops the producer,
// select and reject yield elements as they are consumed, while groupby and join drain their
// input first.
package asyncfilters
