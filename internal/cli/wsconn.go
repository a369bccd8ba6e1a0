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
	"context"
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/websocket"
)

// WebSocketConn carries one frame per binary websocket message.
type WebSocketConn struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
}

func NewWebSocketConn(conn *websocket.Conn, writeTimeout time.Duration) *WebSocketConn {
	return &WebSocketConn{conn: conn, writeTimeout: writeTimeout}
}

func DialWebSocket(ctx context.Context, url string, header http.Header,
	connectTimeout time.Duration, writeTimeout time.Duration) (*WebSocketConn, error) {

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: connectTimeout,
	}
	timeStart := time.Now()
	conn, resp, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			glog.Errorf("dial %s: %s. status=%d", url, err, resp.StatusCode)
		}
		return nil, &IOError{Err: err}
	}
	glog.V(1).Infof("connected to %s in %v", url, time.Since(timeStart))
	return NewWebSocketConn(conn, writeTimeout), nil
}

func (c *WebSocketConn) ReadFrame() ([]byte, error) {
	for {
		typ, b, err := c.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if typ == websocket.BinaryMessage {
			return b, nil
		}
		glog.V(2).Infof("ignoring websocket message of type %d", typ)
	}
}

func (c *WebSocketConn) WriteFrame(b []byte) error {
	if c.writeTimeout > 0 {
		c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	return c.conn.WriteMessage(websocket.BinaryMessage, b)
}

// Close sends a normal closure and closes the underlying connection.
func (c *WebSocketConn) Close() error {
	var lastErr error
	err := c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	if err != nil && err != websocket.ErrCloseSent {
		lastErr = err
	}
	if err = c.conn.Close(); err != nil {
		lastErr = err
	}
	return lastErr
}
