// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the device-side application runtime.
//
// It runs the engine's background jobs, the connectivity monitor and the
// optional loopback API as one process lifecycle.
package client
