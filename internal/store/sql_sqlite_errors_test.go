// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

func TestSQLiteErrorClassifier(t *testing.T) {
	c := NewSQLiteErrorClassifier()

	tests := []struct {
		name      string
		err       error
		want      ErrorClassification
		full      bool
		emptyCode bool
	}{
		{name: "busy", err: sqlite3.Error{Code: sqlite3.ErrBusy}, want: Retryable},
		{name: "locked wrapped", err: fmt.Errorf("put: %w", sqlite3.Error{Code: sqlite3.ErrLocked}), want: Retryable},
		{name: "full", err: sqlite3.Error{Code: sqlite3.ErrFull}, want: NonRetryable, full: true},
		{name: "io error", err: sqlite3.Error{Code: sqlite3.ErrIoErr}, want: NonRetryable},
		{name: "corrupt", err: sqlite3.Error{Code: sqlite3.ErrCorrupt}, want: NonRetryable},
		{name: "not a driver error", err: assert.AnError, want: NonRetryable, emptyCode: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.err))
			assert.Equal(t, tt.full, c.Full(tt.err))
			if tt.emptyCode {
				assert.Empty(t, c.Code(tt.err))
			} else {
				assert.NotEmpty(t, c.Code(tt.err))
			}
		})
	}
}
