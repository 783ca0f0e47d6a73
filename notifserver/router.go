// Package notifserver implements the embedded mutual-TLS notification
// receiver (IEEE 2030.5 §4.F): a Router dispatching inbound Notification<T>
// POSTs to per-path typed callbacks, and ClientNotifServer, the
// Configure/Add/Run/Shutdown lifecycle around it.
package notifserver

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"unicode/utf8"

	"github.com/synergy-au/sep2go/internal/seplog"
	"github.com/synergy-au/sep2go/resource"
	"github.com/synergy-au/sep2go/response"
)

// errInvalidUTF8 signals that a request body failed UTF-8 validation. It
// is never turned into a SepResponse: the caller must log it and abort
// the connection instead of answering it, matching IEEE 2030.5 §4.F's
// "non-UTF-8 body → error (propagated up, connection-serving error
// logged)" — distinct from a malformed-but-valid-UTF-8 body, which does
// get a BadRequest response.
var errInvalidUTF8 = errors.New("notifserver: request body is not valid UTF-8")

// routeHandler consumes a raw request body and produces a SepResponse; the
// per-route Add[T] registration closes over the concrete resource type T,
// exactly as IEEE 2030.5 §8's "typed route dispatch across erased boundary"
// describes.
type routeHandler func(ctx context.Context, body string) response.SepResponse

// Router dispatches exact-match paths to routeHandlers. It uses sync.Map
// (Go's lock-free-read concurrent map) rather than a mutex-guarded
// map[string]routeHandler, the closest stdlib analogue to the original
// source's dashmap::DashMap: writes only happen during Add registration
// before Run starts serving, reads happen on every request thereafter.
type Router struct {
	routes sync.Map // string -> routeHandler
}

func newRouter() *Router {
	return &Router{}
}

// add registers handler under path, overwriting any existing registration
// on the same path (IEEE 2030.5 §4.F: "re-registration on the same path
// overwrites").
func (r *Router) add(path string, handler routeHandler) {
	r.routes.Store(path, handler)
}

// route dispatches req: a POST on a registered path reads the full body,
// validates it as UTF-8, and invokes its handler; POST on an unregistered
// path is NotFound; any other method on a registered path is
// MethodNotAllowed with Allow: POST; any other method on an unregistered
// path is NotFound (matching the original source's router, which checks
// existence before method).
//
// A non-nil error return means the body failed UTF-8 validation; the
// caller must not write any SepResponse for it and must abort the
// connection instead (see ClientNotifServer.serveHTTP).
func (r *Router) route(req *http.Request) (response.SepResponse, error) {
	v, ok := r.routes.Load(req.URL.Path)
	if !ok {
		return response.NotFound(), nil
	}
	handler := v.(routeHandler)

	if req.Method != http.MethodPost {
		return response.MethodNotAllowed("POST"), nil
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return response.BadRequest(), nil
	}
	if !utf8.Valid(body) {
		return response.SepResponse{}, errInvalidUTF8
	}
	return handler(req.Context(), string(body)), nil
}

// Add registers a typed Notification<T> route. The adapter decodes the
// POST body as UTF-8, deserializes it as resource.Notification[T], and on
// success invokes callback; a deserialization failure synthesizes
// response.BadRequest() without invoking callback (IEEE 2030.5 §4.F/§7: decode
// errors on the notification endpoint are absorbed, not propagated).
func Add[T resource.SEResource](s *ClientNotifServer, path string, log seplog.Logger, callback func(context.Context, resource.Notification[T]) response.SepResponse) {
	s.router.add(path, func(ctx context.Context, body string) response.SepResponse {
		notif, err := resource.Deserialize[resource.Notification[T]](body)
		if err != nil {
			log.Errorf("failed to deserialize resource on %s: %v", path, err)
			return response.BadRequest()
		}
		log.Debugf("successfully deserialized a resource on %s", path)
		return callback(ctx, notif)
	})
}
