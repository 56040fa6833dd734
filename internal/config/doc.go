// Package config provides configuration loading, merging, and validation
// facilities for the client daemon and the reference server.
//
// Configuration is assembled from multiple sources in the following priority
// order (earlier sources win over later non-zero fields):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//  4. Built-in defaults ([Defaults])
//
// The main entry points are [GetClientConfig] for the sync daemon and
// [GetServerConfig] for the reference remote.
package config
