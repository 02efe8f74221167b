// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	goahttp "goa.design/goa/v3/http"

	"github.com/linuxfoundation/lfx-v2-booking-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-booking-service/internal/middleware"
	"github.com/linuxfoundation/lfx-v2-booking-service/pkg/constants"
)

// newHTTPHandler mounts the booking routes and wraps them in the middleware chain.
func newHTTPHandler(api *BookingAPI) http.Handler {
	mux := goahttp.NewMuxer()
	requestDecoder := goahttp.RequestDecoder
	responseEncoder := goahttp.ResponseEncoder

	route := func(fn routeFunc) http.HandlerFunc {
		return api.handler(fn, mux.Vars, requestDecoder, responseEncoder)
	}

	mux.Handle(http.MethodGet, "/livez", api.Livez)
	mux.Handle(http.MethodGet, "/readyz", api.Readyz)
	mux.Handle(http.MethodGet, "/location-types", route(api.ListLocationTypes))
	mux.Handle(http.MethodPost, "/events/{event_id}/bookings", route(api.CreateBooking))
	mux.Handle(http.MethodPut, "/events/{event_id}", route(api.UpsertEvent))
	mux.Handle(http.MethodGet, "/meetings/{meeting_id}", route(api.GetMeeting))
	mux.Handle(http.MethodPost, "/meetings/{meeting_id}/cancel", route(api.CancelMeeting))
	mux.Handle(http.MethodGet, "/integrations", route(api.ListIntegrations))

	var handler http.Handler = mux

	// Add HTTP middleware
	// Note: Order matters - RequestIDMiddleware should come first in the chain,
	// so it should be the last middleware added to the handler since it is executed in reverse order.
	handler = middleware.RequestLoggerMiddleware()(handler)
	handler = middleware.RequestIDMiddleware()(handler)
	handler = middleware.AuthorizationMiddleware()(handler)

	return otelhttp.NewHandler(handler, constants.ServiceName)
}

// setupHTTPServer configures and starts the HTTP server
func setupHTTPServer(f flags, api *BookingAPI, gracefulCloseWG *sync.WaitGroup) *http.Server {
	addr := listenAddr(f)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           newHTTPHandler(api),
		ReadHeaderTimeout: 3 * time.Second,
	}

	gracefulCloseWG.Add(1)
	go func() {
		slog.With("addr", addr).Debug("starting http server, listening on port " + f.Port)
		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			slog.With(logging.ErrKey, err).Error("http listener error")
			os.Exit(1)
		}
		// Because ErrServerClosed is *immediately* returned when Shutdown is
		// called, not when when Shutdown completes, this must not yet decrement
		// the wait group.
	}()

	return httpServer
}
