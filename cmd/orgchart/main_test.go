package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/matzehuels/orgchart/pkg/errors"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"cancelled", fmt.Errorf("fetch: %w", context.Canceled), 130},
		{"bad selector", errors.New(errors.ErrCodeInvalidSelector, "layer x"), 2},
		{"bad config", errors.New(errors.ErrCodeInvalidConfig, "ttl"), 2},
		{"missing roster", errors.New(errors.ErrCodeRosterNotFound, "gone"), 1},
		{"plain error", fmt.Errorf("boom"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
