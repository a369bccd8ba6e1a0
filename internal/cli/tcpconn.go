//
//  Copyright 2023 PayPal Inc.
//
//  Licensed to the Apache Software Foundation (ASF) under one or more
//  contributor license agreements.  See the NOTICE file distributed with
//  this work for additional information regarding copyright ownership.
//  The ASF licenses this file to You under the Apache License, Version 2.0
//  (the "License"); you may not use this file except in compliance with
//  the License.  You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.
//

package cli

import (
	"bufio"
	"context"
	"net"
	"time"

	"github.com/golang/glog"

	"livelink/pkg/proto"
)

// TCPConn carries frames over a plain byte stream. Frames go over the
// stream exactly as they do over websocket, delimited by the payload size
// field of their own header.
type TCPConn struct {
	conn         net.Conn
	r            *bufio.Reader
	writeTimeout time.Duration
}

func NewTCPConn(conn net.Conn, writeTimeout time.Duration) *TCPConn {
	return &TCPConn{
		conn:         conn,
		r:            bufio.NewReader(conn),
		writeTimeout: writeTimeout,
	}
}

func DialTCP(ctx context.Context, addr string, connectTimeout time.Duration, writeTimeout time.Duration) (*TCPConn, error) {
	dialer := &net.Dialer{Timeout: connectTimeout}
	timeStart := time.Now()
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, &IOError{Err: err}
	}
	glog.V(1).Infof("connected to %s in %v", addr, time.Since(timeStart))
	return NewTCPConn(conn, writeTimeout), nil
}

// ReadFrame reads the next frame. The header is checked for magic, version,
// channel and payload size before the payload is read.
func (c *TCPConn) ReadFrame() ([]byte, error) {
	return proto.ReadFrameBytes(c.r)
}

func (c *TCPConn) WriteFrame(b []byte) error {
	if c.writeTimeout > 0 {
		c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	_, err := c.conn.Write(b)
	return err
}

func (c *TCPConn) Close() error {
	return c.conn.Close()
}
