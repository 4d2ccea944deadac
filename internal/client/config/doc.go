// Package config loads runtime configuration for the Bike & Bed client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. A .toml extension
//     selects TOML, anything else is read as JSON.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the backend gRPC endpoint
//	-g string   auth gateway, mock or grpc
//	-s string   device store, sqlite or bolt
//	-f string   device store file
//	-t int      gateway timeout (seconds)
//	-i int      online status check interval (seconds), 0 disables
//
// # File schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "gateway": "grpc",
//	  "store": "bolt",
//	  "data_file": "/home/ana/.config/bikebed/state.bolt",
//	  "gateway_timeout": "15s",
//	  "mock_delay": "500ms",
//	  "log_level": "info",
//	  "online_check_interval": "10s"
//	}
//
// The same keys are used in TOML.
package config
