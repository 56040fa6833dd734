// Package http implements the HTTP transport of both binaries.
//
// [Handler.Init] builds the reference remote's record API: device-token
// authentication, trace ids, access logging and gzip sit in front of the
// record service. [Handler.InitLocal] builds the loopback API through which
// applications on a device reach the sync engine.
package http
