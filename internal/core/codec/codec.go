package codec

import (
	"errors"
	"fmt"
	"io"

	"github.com/multiformats/go-varint"

	pkgif "github.com/dep2p/go-multistream/pkg/interfaces"
	"github.com/dep2p/go-multistream/pkg/lib/log"
)

var logger = log.Logger("core/codec")

const (
	// MaxMessageSize 帧声明长度上限（含换行符）
	MaxMessageSize = 64 * 1024

	// MaxTokenSize 令牌长度上限
	MaxTokenSize = MaxMessageSize - 1

	// TooLargeMessage 拒绝超长帧时回写给对端的消息
	TooLargeMessage = "Messages over 64k are not allowed"
)

// ============================================================================
//                              写入
// ============================================================================

// AppendToken 将令牌帧追加到 dst
func AppendToken(dst []byte, token string) []byte {
	dst = append(dst, varint.ToUvarint(uint64(len(token)+1))...)
	dst = append(dst, token...)
	return append(dst, '\n')
}

// WriteToken 以一次 Write 写出单个令牌帧，不刷新
func WriteToken(w io.Writer, token string) error {
	if len(token) > MaxTokenSize {
		return ErrMessageTooLarge
	}
	_, err := w.Write(AppendToken(make([]byte, 0, varint.UvarintSize(uint64(len(token)+1))+len(token)+1), token))
	return err
}

// WriteTokens 在内存中组装全部令牌帧，一次写出后刷新
func WriteTokens(w io.Writer, tokens ...string) error {
	var buf []byte
	for _, tok := range tokens {
		if len(tok) > MaxTokenSize {
			return ErrMessageTooLarge
		}
		buf = AppendToken(buf, tok)
	}
	if _, err := w.Write(buf); err != nil {
		return err
	}
	return Flush(w)
}

// Flush 刷新可缓冲的写入端
func Flush(w io.Writer) error {
	if f, ok := w.(pkgif.Flusher); ok {
		return f.Flush()
	}
	return nil
}

// ============================================================================
//                              读取
// ============================================================================

// byteReader 逐字节读取，不预读
type byteReader struct {
	r   io.Reader
	buf [1]byte
}

func (b *byteReader) ReadByte() (byte, error) {
	_, err := io.ReadFull(b.r, b.buf[:])
	if err != nil {
		return 0, err
	}
	return b.buf[0], nil
}

func asByteReader(r io.Reader) io.ByteReader {
	if br, ok := r.(io.ByteReader); ok {
		return br
	}
	return &byteReader{r: r}
}

// ReadToken 读取一个令牌
//
// 连接在帧开始前正常关闭时返回 io.EOF。
// 帧超长时向 rw 回写拒绝消息并返回 ErrMessageTooLarge。
// 帧数据不足时返回包装了 io.ErrUnexpectedEOF 的错误。
func ReadToken(rw io.ReadWriter) (string, error) {
	return readFrame(rw, asByteReader(rw), rw)
}

// ReadTokenFrom 从只读来源读取一个令牌，超长帧不回写
func ReadTokenFrom(r io.Reader) (string, error) {
	return readFrame(r, asByteReader(r), nil)
}

func readFrame(r io.Reader, br io.ByteReader, reject io.Writer) (string, error) {
	n, err := varint.ReadUvarint(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", fmt.Errorf("codec: read length: %w", err)
	}
	if n == 0 {
		return "", nil
	}

	if n > MaxMessageSize {
		logger.Debug("拒绝超长帧", "length", n)
		if reject != nil {
			// 尽力告知对端，写失败不影响返回的错误
			_ = WriteTokens(reject, TooLargeMessage)
		}
		return "", ErrMessageTooLarge
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return "", fmt.Errorf("codec: read %d byte frame: %w", n, err)
	}

	if buf[n-1] != '\n' {
		return "", ErrMessageMissingNewline
	}
	return string(buf[:n-1]), nil
}
