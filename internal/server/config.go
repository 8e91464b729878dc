package server

type HttpConfig struct {
	// Host is the interface to bind, localhost by default
	Host string `conf:"host"`

	// Port is the TCP port to bind, 0 picks a free one
	Port int `conf:"port"`

	// H2c enables HTTP/2 cleartext upgrade
	H2c bool `conf:"h2c"`
}
