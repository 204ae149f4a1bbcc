package protocol

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dep2p/go-multistream/internal/core/codec"
	"github.com/dep2p/go-multistream/internal/core/metrics"
	"github.com/dep2p/go-multistream/internal/util/ioctx"
	"github.com/dep2p/go-multistream/pkg/protocolids"
)

// Selector multistream-select 发起方
//
// 零值可用；Metrics 为 nil 时不记录指标。
type Selector struct {
	Metrics *metrics.Metrics
}

var defaultSelector = &Selector{}

// SelectProtoOrFail 提议单个协议，被拒绝时返回 ErrNotSupported
func SelectProtoOrFail(proto string, rw io.ReadWriter) error {
	return defaultSelector.SelectProtoOrFail(context.Background(), proto, rw)
}

// SelectProtoOrFailContext 带 context 的 SelectProtoOrFail
func SelectProtoOrFailContext(ctx context.Context, proto string, rw io.ReadWriter) error {
	return defaultSelector.SelectProtoOrFail(ctx, proto, rw)
}

// SelectOneOf 按顺序提议候选协议，返回首个被接受的协议
func SelectOneOf(protos []string, rw io.ReadWriter) (string, error) {
	return defaultSelector.SelectOneOf(context.Background(), protos, rw)
}

// SelectOneOfContext 带 context 的 SelectOneOf
func SelectOneOfContext(ctx context.Context, protos []string, rw io.ReadWriter) (string, error) {
	return defaultSelector.SelectOneOf(ctx, protos, rw)
}

// ListProtocols 请求对端的协议列表
func ListProtocols(rw io.ReadWriter) ([]string, error) {
	return defaultSelector.ListProtocols(context.Background(), rw)
}

// ListProtocolsContext 带 context 的 ListProtocols
func ListProtocolsContext(ctx context.Context, rw io.ReadWriter) ([]string, error) {
	return defaultSelector.ListProtocols(ctx, rw)
}

// ============================================================================
//                              Selector
// ============================================================================

// SelectProtoOrFail 完成握手后提议 proto
//
// 对端回应 na 时返回 *NotSupportedError，其他回应返回 *UnrecognizedResponseError。
func (s *Selector) SelectProtoOrFail(ctx context.Context, proto string, rw io.ReadWriter) error {
	if err := ValidateProposal(proto); err != nil {
		return err
	}

	start := time.Now()
	err := ioctx.Run(ctx, rw, func() error {
		if err := selectHandshake(rw); err != nil {
			return err
		}
		ok, err := trySelect(proto, rw)
		if err != nil {
			return err
		}
		if !ok {
			return &NotSupportedError{Protocols: []string{proto}}
		}
		return nil
	})
	s.observe(err, time.Since(start))
	return err
}

// SelectOneOf 完成握手后依次提议 protos
//
// 全部被拒绝时返回列出所有候选的 *NotSupportedError。
func (s *Selector) SelectOneOf(ctx context.Context, protos []string, rw io.ReadWriter) (string, error) {
	for _, p := range protos {
		if err := ValidateProposal(p); err != nil {
			return "", err
		}
	}

	start := time.Now()
	proto, err := ioctx.Do(ctx, rw, func() (string, error) {
		if err := selectHandshake(rw); err != nil {
			return "", err
		}
		for _, p := range protos {
			ok, err := trySelect(p, rw)
			if err != nil {
				return "", err
			}
			if ok {
				return p, nil
			}
			logger.Debug("对端拒绝协议", "protocol", p)
		}
		return "", &NotSupportedError{Protocols: append([]string(nil), protos...)}
	})
	s.observe(err, time.Since(start))
	if err == nil {
		logger.Debug("协议选择成功", "protocol", proto)
	}
	return proto, err
}

// ListProtocols 完成握手后发送 ls 并读取协议列表
func (s *Selector) ListProtocols(ctx context.Context, rw io.ReadWriter) ([]string, error) {
	return ioctx.Do(ctx, rw, func() ([]string, error) {
		if err := selectHandshake(rw); err != nil {
			return nil, err
		}
		if err := codec.WriteTokens(rw, protocolids.Ls); err != nil {
			return nil, fmt.Errorf("protocol: write ls: %w", err)
		}
		protos, err := codec.ReadListing(rw)
		if err != nil {
			return nil, fmt.Errorf("protocol: read listing: %w", err)
		}
		return protos, nil
	})
}

func (s *Selector) observe(err error, d time.Duration) {
	switch {
	case err == nil:
		s.Metrics.ObserveNegotiation(metrics.RoleInitiator, metrics.ResultSuccess, d)
	case errors.Is(err, ErrNotSupported):
		s.Metrics.ObserveNegotiation(metrics.RoleInitiator, metrics.ResultNA, d)
	default:
		s.Metrics.ObserveNegotiation(metrics.RoleInitiator, metrics.ResultError, d)
	}
}

// ValidateProposal 检查 proto 能否作为候选协议发送
//
// 空串在线路上等同于对端关闭，保留标识不能提议。
func ValidateProposal(proto string) error {
	if proto == "" {
		return ErrEmptyProtocol
	}
	if protocolids.IsReserved(proto) {
		return ErrReservedProtocol
	}
	return nil
}

// selectHandshake 发起方握手：读取并校验对端标识，然后发送自己的标识
func selectHandshake(rw io.ReadWriter) error {
	tok, err := codec.ReadToken(rw)
	if err != nil {
		return fmt.Errorf("protocol: read header: %w", err)
	}
	if tok != protocolids.Multistream {
		return fmt.Errorf("%w: protocol id mismatch, got %q", ErrIncorrectVersion, tok)
	}
	if err := codec.WriteTokens(rw, protocolids.Multistream); err != nil {
		return fmt.Errorf("protocol: write header: %w", err)
	}
	return nil
}

// trySelect 提议单个协议，返回是否被接受
func trySelect(proto string, rw io.ReadWriter) (bool, error) {
	if err := codec.WriteTokens(rw, proto); err != nil {
		return false, fmt.Errorf("protocol: write proposal: %w", err)
	}
	tok, err := codec.ReadToken(rw)
	if err != nil {
		return false, fmt.Errorf("protocol: read response: %w", err)
	}
	switch tok {
	case proto:
		return true, nil
	case protocolids.NA:
		return false, nil
	default:
		return false, &UnrecognizedResponseError{Protocol: proto, Response: tok}
	}
}
