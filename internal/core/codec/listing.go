package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/multiformats/go-varint"
)

// MaxListingSize 协议列表负载上限
const MaxListingSize = 16 * MaxMessageSize

// AppendListing 将协议列表追加到 dst
func AppendListing(dst []byte, protocols []string) []byte {
	payload := varint.ToUvarint(uint64(len(protocols)))
	for _, p := range protocols {
		payload = AppendToken(payload, p)
	}
	dst = append(dst, varint.ToUvarint(uint64(len(payload)))...)
	return append(dst, payload...)
}

// WriteListing 在内存中组装协议列表，一次写出后刷新
func WriteListing(w io.Writer, protocols []string) error {
	for _, p := range protocols {
		if len(p) > MaxTokenSize {
			return ErrMessageTooLarge
		}
	}
	if _, err := w.Write(AppendListing(nil, protocols)); err != nil {
		return err
	}
	return Flush(w)
}

// ReadListing 读取协议列表
func ReadListing(r io.Reader) ([]string, error) {
	size, err := varint.ReadUvarint(asByteReader(r))
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("codec: read listing length: %w", err)
	}
	if size > MaxListingSize {
		return nil, ErrMessageTooLarge
	}

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("codec: read listing: %w", err)
	}
	return DecodeListing(payload)
}

// DecodeListing 解析协议列表负载（不含外层长度）
func DecodeListing(payload []byte) ([]string, error) {
	br := bytes.NewReader(payload)
	count, err := varint.ReadUvarint(br)
	if err != nil {
		return nil, fmt.Errorf("%w: count: %v", ErrMalformedListing, err)
	}
	// 每帧至少两个字节
	if count > uint64(len(payload)) {
		return nil, fmt.Errorf("%w: count %d exceeds payload", ErrMalformedListing, count)
	}

	protocols := make([]string, 0, count)
	for i := uint64(0); i < count; i++ {
		p, err := ReadTokenFrom(br)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrMalformedListing, i, err)
		}
		protocols = append(protocols, p)
	}
	return protocols, nil
}
