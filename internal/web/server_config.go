package web

// ServerConfig contains settings for running the HTTP server.
//
// The intended defaults differ per binary:
// - real device: :80
// - simulator:   :8080
// An empty ListenAddr disables the server.
type ServerConfig struct {
	ListenAddr string
	DevMode    bool
	StaticDir  string
}
