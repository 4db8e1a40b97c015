package extract

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBatchOrderAndIsolation(t *testing.T) {
	svc, _ := newTestService(t, generatorFunc(func(ctx context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, "t2") {
			return "", fmt.Errorf("simulated model outage")
		}
		return validResponse, nil
	}))

	results := svc.ExtractBatch(context.Background(), []string{"t1", "t2", "t3"}, "", "")

	require.Len(t, results, 3)
	assert.True(t, results[0].Metadata.Success)
	assert.True(t, results[2].Metadata.Success)

	// The failing slot degrades to a placeholder; its neighbors are intact.
	assert.False(t, results[1].Metadata.Success)
	assert.Empty(t, results[1].Entities)
	assert.Empty(t, results[1].Relationships)
	assert.Contains(t, results[1].RefinementInfo, "extraction failed")
}

func TestExtractBatchBoundedConcurrency(t *testing.T) {
	var inFlight, peak int64
	svc, _ := newTestService(t, generatorFunc(func(ctx context.Context, prompt string) (string, error) {
		n := atomic.AddInt64(&inFlight, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		return validResponse, nil
	}))

	texts := []string{"a", "b", "c", "d", "e", "f"}
	results := svc.ExtractBatch(context.Background(), texts, "", "")

	require.Len(t, results, len(texts))
	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(2), "batch concurrency limit is 2 in test service")
}

func TestExtractBatchNoDeduplication(t *testing.T) {
	svc, _ := newTestService(t, generatorFunc(func(ctx context.Context, prompt string) (string, error) {
		return validResponse, nil
	}))

	results := svc.ExtractBatch(context.Background(), []string{"same", "same"}, "", "")

	require.Len(t, results, 2)
	assert.NotEqual(t, results[0].RequestID, results[1].RequestID)
	assert.NotEqual(t, results[0].Entities[0].ID, results[1].Entities[0].ID,
		"identical inputs produce independently identified graphs")
}

func TestExtractBatchCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc, _ := newTestService(t, generatorFunc(func(ctx context.Context, prompt string) (string, error) {
		return validResponse, nil
	}))

	results := svc.ExtractBatch(ctx, []string{"t1", "t2"}, "", "")

	require.Len(t, results, 2)
	for _, r := range results {
		assert.False(t, r.Metadata.Success)
	}
}

func TestExtractBatchEmptyInput(t *testing.T) {
	svc, _ := newTestService(t, nil)
	results := svc.ExtractBatch(context.Background(), nil, "", "")
	assert.Empty(t, results)
}
