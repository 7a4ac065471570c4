package id

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUnique(t *testing.T) {
	gen := NewGenerator()
	assert.NotEqual(t, gen.Generate(), gen.Generate())
}

func TestGenerateString(t *testing.T) {
	assert.Len(t, NewGenerator().GenerateString(), 26)
}

func TestGenerateWithPrefix(t *testing.T) {
	gen := NewGenerator()

	for _, prefix := range []string{CallPrefix, SessionPrefix} {
		t.Run(prefix, func(t *testing.T) {
			id := gen.GenerateWithPrefix(prefix)
			require.True(t, strings.HasPrefix(id, prefix+"_"))
			assert.True(t, IsValid(id))
		})
	}
}

func TestTypedIDs(t *testing.T) {
	assert.True(t, strings.HasPrefix(NewCallID().String(), "call_"))
	assert.True(t, strings.HasPrefix(NewSessionID().String(), "sess_"))
}

func TestMonotonicWithinMillisecond(t *testing.T) {
	gen := NewGenerator()
	frozen := time.UnixMilli(1_700_000_000_000)
	gen.now = func() time.Time { return frozen }

	prev := gen.GenerateString()
	for i := 0; i < 100; i++ {
		next := gen.GenerateString()
		require.Less(t, prev, next)
		prev = next
	}
}

func TestDeterministicEntropy(t *testing.T) {
	frozen := time.UnixMilli(1_700_000_000_000)
	a := NewGeneratorWithEntropy(bytes.NewReader(bytes.Repeat([]byte{7}, 64)))
	b := NewGeneratorWithEntropy(bytes.NewReader(bytes.Repeat([]byte{7}, 64)))
	a.now = func() time.Time { return frozen }
	b.now = func() time.Time { return frozen }

	assert.Equal(t, a.GenerateString(), b.GenerateString())
}

func TestTimestamp(t *testing.T) {
	before := time.Now().Add(-time.Second)
	id := NewCallID()

	ts, err := Timestamp(id.String())
	require.NoError(t, err)
	assert.True(t, ts.After(before))
}

func TestParseInvalid(t *testing.T) {
	assert.False(t, IsValid("call_not-a-ulid"))
	assert.False(t, IsValid(""))
}

func TestConcurrentGeneration(t *testing.T) {
	gen := NewGenerator()
	var mu sync.Mutex
	seen := make(map[string]struct{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				id := gen.GenerateString()
				mu.Lock()
				seen[id] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 1000)
}
