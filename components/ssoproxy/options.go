package ssoproxy

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/goliatone/go-memberportal/internal/config"
)

// Doer is the subset of *http.Client the component needs.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Options struct {
	TokenPath    string
	UserinfoPath string
	SSO          config.SSO
	HTTPClient   Doer
	Logger       *slog.Logger
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		TokenPath:    "/api/sso/token",
		UserinfoPath: "/api/sso/userinfo",
		HTTPClient:   &http.Client{Timeout: 15 * time.Second},
		Logger:       slog.Default(),
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.TokenPath == "" {
		opts.TokenPath = "/api/sso/token"
	}
	if opts.UserinfoPath == "" {
		opts.UserinfoPath = "/api/sso/userinfo"
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return opts
}

func WithTokenPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.TokenPath = path
	}
}

func WithUserinfoPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.UserinfoPath = path
	}
}

func WithSSO(sso config.SSO) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SSO = sso
	}
}

func WithHTTPClient(doer Doer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.HTTPClient = doer
	}
}

func WithLogger(logger *slog.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}
