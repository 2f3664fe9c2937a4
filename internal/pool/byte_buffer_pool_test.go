package pool

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestByteBuffer_WriteAndReset(t *testing.T) {
	bb := NewByteBuffer(8)
	n, err := bb.Write([]byte("0A\n"))
	require.NoError(t, err)
	require.Equal(t, 3, n)
	_, _ = bb.Write([]byte("FF\n"))

	require.Equal(t, []byte("0A\nFF\n"), bb.Bytes())
	require.Equal(t, 6, bb.Len())

	capBefore := cap(bb.B)
	bb.Reset()
	require.Equal(t, 0, bb.Len())
	require.Equal(t, capBefore, cap(bb.B))
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(8)
	_, _ = bb.Write([]byte("7F\n"))

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, int64(3), n)
	require.Equal(t, "7F\n", out.String())

	_, err = bb.WriteTo(failingWriter{})
	require.Error(t, err)
}

func TestByteBuffer_Grow(t *testing.T) {
	t.Run("sufficient capacity is a no-op", func(t *testing.T) {
		bb := NewByteBuffer(100)
		bb.Grow(50)
		require.Equal(t, 100, cap(bb.B))
	})

	t.Run("small buffer grows by default size", func(t *testing.T) {
		bb := NewByteBuffer(10)
		_, _ = bb.Write([]byte("abc"))
		bb.Grow(20)
		require.GreaterOrEqual(t, cap(bb.B), 3+StreamBufferDefaultSize)
		require.Equal(t, []byte("abc"), bb.Bytes())
	})

	t.Run("large request wins over default growth", func(t *testing.T) {
		bb := NewByteBuffer(10)
		bb.Grow(StreamBufferDefaultSize * 3)
		require.GreaterOrEqual(t, cap(bb.B)-bb.Len(), StreamBufferDefaultSize*3)
	})

	t.Run("large buffer grows by a quarter", func(t *testing.T) {
		bb := NewByteBuffer(8 * StreamBufferDefaultSize)
		bb.B = bb.B[:cap(bb.B)]
		bb.Grow(1)
		require.GreaterOrEqual(t, cap(bb.B), 10*StreamBufferDefaultSize)
	})
}

func TestByteBufferPool(t *testing.T) {
	t.Run("returned buffers are empty", func(t *testing.T) {
		p := NewByteBufferPool(16, 0)
		bb := p.Get()
		_, _ = bb.Write([]byte("00\n"))
		p.Put(bb)

		again := p.Get()
		require.Equal(t, 0, again.Len())
	})

	t.Run("nil put is ignored", func(t *testing.T) {
		require.NotPanics(t, func() { PutStreamBuffer(nil) })
	})

	t.Run("oversized buffers are not retained", func(t *testing.T) {
		p := NewByteBufferPool(16, 32)
		big := NewByteBuffer(64)
		p.Put(big)

		got := p.Get()
		require.Equal(t, 16, cap(got.B))
	})

	t.Run("default stream pool", func(t *testing.T) {
		bb := GetStreamBuffer()
		require.NotNil(t, bb)
		require.GreaterOrEqual(t, cap(bb.B), 0)
		PutStreamBuffer(bb)
	})
}

func TestByteBufferPool_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(b byte) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				bb := GetStreamBuffer()
				_, _ = bb.Write([]byte{b})
				if bb.Len() != 1 || bb.Bytes()[0] != b {
					t.Errorf("unexpected buffer content %v", bb.Bytes())
				}
				PutStreamBuffer(bb)
			}
		}(byte(i))
	}
	wg.Wait()
}
