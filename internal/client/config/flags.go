package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/bikebed/internal/flagx"
)

// parseFlags overlays cfg with command-line flags.
//
//	-a string   address and port of the backend server
//	-g string   gateway: mock or grpc
//	-s string   device store: sqlite or bolt
//	-f string   device store file
//	-t int      gateway timeout in seconds
//	-i int      online check interval in seconds, 0 disables
//
// Arguments are filtered with flagx.FilterArgs so the -c/-config flag and
// anything unknown are ignored here.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-s", "-f", "-t", "-i"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.Gateway, "g", cfg.Gateway, "auth gateway (mock|grpc)")
	fs.StringVar(&cfg.Store, "s", cfg.Store, "device store (sqlite|bolt)")
	fs.StringVar(&cfg.DataFile, "f", cfg.DataFile, "device store file")
	timeout := fs.Int("t", int(cfg.GatewayTimeout.Seconds()), "gateway timeout (in seconds)")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.GatewayTimeout = time.Duration(*timeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	return nil
}
