package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateNextRetryTime(t *testing.T) {
	tests := []struct {
		name       string
		retryCount int
		minBackoff time.Duration
		maxBackoff time.Duration
	}{
		{name: "first retry", retryCount: 1, minBackoff: 2 * time.Second, maxBackoff: 2 * time.Second},
		{name: "third retry", retryCount: 3, minBackoff: 8 * time.Second, maxBackoff: 8 * time.Second},
		{name: "deep retry capped", retryCount: 10, minBackoff: 300 * time.Second, maxBackoff: 300 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := time.Now()
			next := calculateNextRetryTime(tt.retryCount)
			after := time.Now()

			assert.True(t, next.After(before.Add(tt.minBackoff-time.Second)))
			assert.True(t, next.Before(after.Add(tt.maxBackoff+time.Second)))
		})
	}
}
