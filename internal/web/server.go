package web

import "context"

type Server interface {
	Start(ctx context.Context) error
	Stop() error
}

type NoopServer struct{}

func (n *NoopServer) Start(ctx context.Context) error { return nil }
func (n *NoopServer) Stop() error                     { return nil }

// New returns an HTTPServer for cfg, or a NoopServer when no listen address
// is configured.
func New(cfg ServerConfig, api APIV1Config) Server {
	if cfg.ListenAddr == "" {
		return &NoopServer{}
	}
	srv := NewHTTPServer(cfg)
	srv.Handler = NewDefaultMux(cfg.StaticDir, api)
	return srv
}
