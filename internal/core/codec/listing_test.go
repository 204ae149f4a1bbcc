package codec

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestListing_RoundTrip 测试协议列表编解码往返
func TestListing_RoundTrip(t *testing.T) {
	testCases := []struct {
		name      string
		protocols []string
	}{
		{"empty", []string{}},
		{"single", []string{"a"}},
		{"many", []string{"a", "b", "c", "d", "e"}},
		{"with empty", []string{"", "a"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rw := newBufferRW(nil)
			require.NoError(t, WriteListing(rw, tc.protocols))
			assert.Equal(t, 1, rw.flushes)

			got, err := ReadListing(bytes.NewReader(rw.out.Bytes()))
			require.NoError(t, err)
			assert.Equal(t, tc.protocols, got)
		})
	}
}

// TestListing_Format 测试外层长度恰好覆盖负载
func TestListing_Format(t *testing.T) {
	assert.Equal(t, []byte{1, 0}, AppendListing(nil, nil))
	assert.Equal(t, []byte{4, 1, 2, 'a', '\n'}, AppendListing(nil, []string{"a"}))

	buf := AppendListing(nil, []string{"/a", "/bb"})
	assert.Equal(t, int(buf[0]), len(buf)-1)
}

// TestListing_LeavesTrailingData 测试读取列表不消耗后续数据
func TestListing_LeavesTrailingData(t *testing.T) {
	buf := AppendListing(nil, []string{"/a"})
	buf = append(buf, 'z')
	r := bytes.NewReader(buf)

	got, err := ReadListing(r)
	require.NoError(t, err)
	assert.Equal(t, []string{"/a"}, got)

	rest, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, []byte("z"), rest)
}

func TestReadListing_Errors(t *testing.T) {
	t.Run("truncated", func(t *testing.T) {
		_, err := ReadListing(bytes.NewReader([]byte{4, 1, 2}))
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := ReadListing(bytes.NewReader(nil))
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("count too large", func(t *testing.T) {
		_, err := ReadListing(bytes.NewReader([]byte{2, 9, 0}))
		assert.ErrorIs(t, err, ErrMalformedListing)
	})

	t.Run("bad entry", func(t *testing.T) {
		_, err := ReadListing(bytes.NewReader([]byte{4, 1, 2, 'a', 'b'}))
		assert.ErrorIs(t, err, ErrMalformedListing)
	})
}
