package config

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags from the process arguments.
//
// Flags:
//
//	-a local API / server address in format [host]:[port]
//	-grpc-address grpc server address in format [host]:[port]
//	-r remote endpoint base URL
//	-d database DSN (SQLite path for the client, PostgreSQL DSN for the server)
//	-c/-config json file path with configs
//	-hash-key content hash key
//	-token-sign-key device token signing key
//	-device-id device identifier
//	-request-timeout inbound request timeout (e.g., "30s", "1m")
//	-remote-timeout single remote operation timeout
//	-max-retries queue entry retry ceiling
//	-status-file connectivity status file
//	-policies cache policy YAML file
//	-log-file client log file
func ParseFlags() (*StructuredConfig, error) {
	return parseFlags(os.Args[1:])
}

func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("go-offline-sync", flag.ContinueOnError)

	var serverAddress, grpcServerAddress NetAddress
	var remoteAddress string
	var databaseDSN string
	var jsonConfigPath string
	var hashKey string
	var tokenSignKey string
	var deviceID string
	var requestTimeout time.Duration
	var remoteTimeout time.Duration
	var maxRetries int
	var statusFile string
	var policiesFile string
	var logFile string

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.Var(&grpcServerAddress, "grpc-address", "Net grpc server address host:port")
	fs.StringVar(&remoteAddress, "r", "", "Remote endpoint base URL")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&hashKey, "hash-key", "", "Content hash key")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Device token signing key")
	fs.StringVar(&deviceID, "device-id", "", "Device identifier")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&remoteTimeout, "remote-timeout", 0, "Remote operation timeout (e.g., 5s)")
	fs.IntVar(&maxRetries, "max-retries", 0, "Queue entry retry ceiling")
	fs.StringVar(&statusFile, "status-file", "", "Connectivity status file")
	fs.StringVar(&policiesFile, "policies", "", "Cache policy YAML file")
	fs.StringVar(&logFile, "log-file", "", "Client log file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		App: App{
			HashKey:      hashKey,
			TokenSignKey: tokenSignKey,
			DeviceID:     deviceID,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			GRPCAddress:    grpcServerAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Adapter: Adapter{
			HTTPAddress: remoteAddress,
		},
		Sync: Sync{
			MaxRetries:    maxRetries,
			RemoteTimeout: remoteTimeout,
			StatusFile:    statusFile,
			PoliciesFile:  policiesFile,
		},
		Log: Log{
			File: logFile,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns host:port, or an empty string for an unset address.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Set parses host:port. The host may be empty, "localhost" or an IP
// literal (IPv6 in brackets); the port must be within 1-65535.
func (a *NetAddress) Set(s string) error {
	host, rawPort, err := net.SplitHostPort(s)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidNetAddress, err)
	}

	port, err := strconv.Atoi(rawPort)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("%w: port %q", ErrInvalidNetAddress, rawPort)
	}

	if host != "" && host != "localhost" && net.ParseIP(host) == nil {
		return fmt.Errorf("%w: host %q is not an IP address", ErrInvalidNetAddress, host)
	}

	a.Host = host
	a.Port = port
	return nil
}
