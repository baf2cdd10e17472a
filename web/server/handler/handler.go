package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"reflect"

	"go.hackfix.me/brute/web/server/types"
)

// Handle creates an HTTP handler function that processes requests through a
// configurable pipeline. It supports generic request/response types and handles
// request/response processing, and error handling automatically.
//
// It relies on reflection to create request and response instances, and on
// passing values between components using the request context.
//
//nolint:gocognit // The complexity is a bit high, but refactoring this would hurt legibility.
func Handle[Req types.Request, Resp types.Response](
	handlerFn func(context.Context, Req) (Resp, error),
	p *Pipeline,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			ctx  = r.Context()
			req  = createInstance[Req]()
			resp = createInstance[Resp]()
			err  error
		)

		req.SetHTTPRequest(r)

		// Response handling is deferred, since it should happen in both success and
		// error scenarios. The handler may replace resp, so the error handler
		// always refers to the current one.
		handleErr := func(err error) bool {
			return errorHandler(resp, p.errorLevel)(err)
		}

		defer func() {
			// Allow response handlers to modify headers.
			resp.SetHeader(w.Header())

			// 4. Response serialization (optional)
			if p.serializer != nil {
				var serr error
				if ctx, serr = p.serializer.Serialize(ctx, resp); serr != nil {
					handleErr(serr)
				}
			}

			// 5. Response processing
			for _, process := range p.responseProcessors {
				var perr error
				if ctx, perr = process(ctx, resp); handleErr(perr) {
					break
				}
			}

			// 6. Write the response
			if werr := writeResponse(ctx, w, resp); werr != nil {
				slog.Error("failed writing response", "error", werr.Error())
			}
		}()

		// 1. Request deserialization (optional)
		if p.serializer != nil {
			if ctx, err = p.serializer.Deserialize(ctx, req); err != nil {
				handleErr(types.NewError(http.StatusBadRequest, err.Error()))
				return
			}
		}

		// 2. Request validation (optional)
		if reqV, ok := any(req).(interface{ Validate() error }); ok {
			if err = reqV.Validate(); handleErr(err) {
				return
			}
		}

		// 3. Request processing
		for _, process := range p.requestProcessors {
			if ctx, err = process(ctx, req); handleErr(err) {
				return
			}
		}

		// Run the handler
		handlerResp, handlerErr := handlerFn(ctx, req)
		if !isNilResponse(handlerResp) {
			resp = handlerResp
		}
		handleErr(handlerErr)
	}
}

// createInstance returns a new instance of type T.
//
//nolint:ireturn,nolintlint // Required for generic functionality.
func createInstance[T any]() T {
	var zero T
	tType := reflect.TypeOf(zero)

	if tType == nil {
		panic("cannot create instance of nil interface type")
	}

	switch tType.Kind() {
	case reflect.Ptr:
		// Create new instance of the underlying type
		return reflect.New(tType.Elem()).Interface().(T) //nolint:errcheck,forcetypeassert // It's fine.
	case reflect.Interface:
		panic("cannot create instance of interface type - need concrete type")
	default:
		// For value types, return zero value directly
		return zero
	}
}

func isNilResponse(resp types.Response) bool {
	if resp == nil {
		return true
	}
	v := reflect.ValueOf(resp)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

func errorHandler[Resp types.Response](resp Resp, errLvl types.ErrorLevel) func(error) bool {
	return func(err error) bool {
		if err == nil {
			return false
		}

		// Ensure that response handlers have a valid HTTP error and status code.
		var (
			terr       *types.Error
			statusCode = http.StatusInternalServerError
		)
		switch {
		case !errors.As(err, &terr) || terr == nil:
			terr = types.NewError(statusCode, err.Error())
		case terr.StatusCode == 0:
			terr.StatusCode = statusCode
		default:
			statusCode = terr.StatusCode
		}

		terr = sanitizeError(terr, errLvl)

		resp.SetStatusCode(statusCode)
		resp.SetError(terr)
		return true
	}
}
