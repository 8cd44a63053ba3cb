package apiproxy

import (
	"fmt"
	"net/http"
)

// Mux is the minimal interface required to register handlers. It is
// satisfied by *http.ServeMux and chi routers.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// RegisterRoutes mounts the passthrough handler on mux and returns the
// registered pattern.
func RegisterRoutes(mux Mux, fns ...OptionFn) (string, error) {
	opts := NewOptions(fns...)
	return RegisterRoutesWithOptions(mux, opts)
}

func RegisterRoutesWithOptions(mux Mux, opts Options) (string, error) {
	if mux == nil {
		return "", fmt.Errorf("apiproxy: missing mux")
	}
	opts = NewOptions(func(o *Options) { *o = opts })
	mux.Handle(opts.RoutePath, HandlerWithOptions(opts))
	return opts.RoutePath, nil
}
