package restyutil

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/semconv/v1.13.0/httpconv"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentOutput receives a rendered request/response pair for every
// completed request.
type InstrumentOutput interface {
	Write(id string, contents string)
}

type instrumentCtx struct {
	output    InstrumentOutput
	tracer    trace.Tracer
	logger    *slog.Logger
	idcounter *uint64
}

type messageIdKey struct{}

// InstrumentClient traces every request made by client and logs it at debug
// level. `tracer` and `logger` can be nil, they default to a tracer named
// "resty" and slog.Default(). `output` can be nil, in which case messages are
// not written anywhere.
func InstrumentClient(client *resty.Client, tracer trace.Tracer, logger *slog.Logger, output InstrumentOutput) {
	if tracer == nil {
		tracer = otel.Tracer("resty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	var idcounter uint64
	i := instrumentCtx{
		output:    output,
		tracer:    tracer,
		logger:    logger,
		idcounter: &idcounter,
	}
	client.OnBeforeRequest(i.onBeforeRequest)
	client.OnAfterResponse(i.onAfterResponse)
	client.OnError(i.onError)
}

func (i instrumentCtx) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	ctx, _ := i.tracer.Start(req.Context(), req.Method)

	messageId := strconv.FormatUint(atomic.AddUint64(i.idcounter, 1), 10)
	ctx = context.WithValue(ctx, messageIdKey{}, messageId)
	i.logger.DebugContext(
		ctx, "start request",
		"method", req.Method,
		"url", req.URL,
		"message_id", messageId,
	)

	req.SetContext(ctx)
	return nil
}

func (i instrumentCtx) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	ctx := res.Request.Context()
	span := trace.SpanFromContext(ctx)
	defer span.End()

	// RawRequest is only populated once the request has been sent
	span.SetName(fmt.Sprintf("http %s", res.Request.Method))
	span.SetAttributes(httpconv.ClientRequest(res.Request.RawRequest)...)
	span.SetAttributes(httpconv.ClientResponse(res.RawResponse)...)
	if res.IsError() {
		span.SetStatus(codes.Error, res.Status())
	}

	messageId, _ := ctx.Value(messageIdKey{}).(string)
	if i.output != nil {
		i.output.Write(messageId, formatHttpMessage(res))
	}
	i.logger.DebugContext(
		ctx, "request finished",
		"method", res.Request.Method,
		"url", res.Request.URL,
		"status", res.StatusCode(),
		"bytes", len(res.Body()),
		"duration", res.Time(),
		"message_id", messageId,
	)

	return nil
}

func (i instrumentCtx) onError(req *resty.Request, err error) {
	ctx := req.Context()
	span := trace.SpanFromContext(ctx)
	defer span.End()

	span.RecordError(err)
	span.SetStatus(codes.Error, "request failed")
	span.SetName(fmt.Sprintf("http %s", req.Method))
	if req.RawRequest != nil {
		span.SetAttributes(httpconv.ClientRequest(req.RawRequest)...)
	}

	messageId, _ := ctx.Value(messageIdKey{}).(string)
	if i.output != nil {
		i.output.Write(messageId, formatHttpRequest(req, err))
	}
	i.logger.ErrorContext(
		ctx, "request failed",
		"method", req.Method,
		"url", req.URL,
		"err", err,
		"message_id", messageId,
	)
}
