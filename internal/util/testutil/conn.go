// Package testutil 提供测试辅助工具
//
// 协商测试使用回环 TCP 连接而不是 net.Pipe：net.Pipe 没有内核缓冲，
// 双方同时写入时会互相阻塞。
package testutil

import (
	"crypto/rand"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

// TCPPair 创建一对已连接的回环 TCP 连接
//
// 测试结束时自动关闭。
func TCPPair(t testing.TB) (client, server net.Conn) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	acceptErr := make(chan error, 1)
	go func() {
		c, err := ln.Accept()
		if err != nil {
			acceptErr <- err
			return
		}
		accepted <- c
	}()

	client, err = net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)

	select {
	case server = <-accepted:
	case err := <-acceptErr:
		client.Close()
		require.NoError(t, err)
	}

	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	return client, server
}

// plainRWC 隐藏底层连接的截止时间能力
type plainRWC struct {
	rwc io.ReadWriteCloser
}

func (p *plainRWC) Read(b []byte) (int, error)  { return p.rwc.Read(b) }
func (p *plainRWC) Write(b []byte) (int, error) { return p.rwc.Write(b) }
func (p *plainRWC) Close() error                { return p.rwc.Close() }

// WithoutDeadline 返回只暴露 Read/Write/Close 的包装
func WithoutDeadline(rwc io.ReadWriteCloser) io.ReadWriteCloser {
	return &plainRWC{rwc: rwc}
}

// RandomBytes 生成 n 字节随机数据
func RandomBytes(t testing.TB, n int) []byte {
	t.Helper()
	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return b
}
