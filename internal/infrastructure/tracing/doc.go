/*
Package tracing provides lightweight request tracing.

Spans carry ULID trace and span IDs, are propagated through the X-Trace-ID
and X-Span-ID headers, and are logged through zap when finished. The HTTP
client injects the headers so one wizard action can be followed across the
client and server logs.

# Usage

	tracer := tracing.New("chatform", logger)
	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "catalog.ListItems")
	defer func() { span.Finish(); tracer.Submit(span) }()
*/
package tracing
