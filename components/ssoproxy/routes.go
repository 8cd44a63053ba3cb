package ssoproxy

import (
	"fmt"
	"net/http"
)

// Mux is the minimal interface required to register handlers. It is
// satisfied by *http.ServeMux and chi routers.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// RegisterRoutes mounts the token and userinfo handlers on mux and returns
// the registered patterns.
func RegisterRoutes(mux Mux, fns ...OptionFn) ([]string, error) {
	opts := NewOptions(fns...)
	return RegisterRoutesWithOptions(mux, opts)
}

func RegisterRoutesWithOptions(mux Mux, opts Options) ([]string, error) {
	if mux == nil {
		return nil, fmt.Errorf("ssoproxy: missing mux")
	}
	opts = NewOptions(func(o *Options) { *o = opts })

	mux.Handle(opts.TokenPath, TokenHandlerWithOptions(opts))
	mux.Handle(opts.UserinfoPath, UserinfoHandlerWithOptions(opts))
	return []string{opts.TokenPath, opts.UserinfoPath}, nil
}
