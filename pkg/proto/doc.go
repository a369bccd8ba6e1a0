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

/*
Package proto implements the livelink binary wire messages exchanged with the
rendering server, and the frame used to carry them over the gateway
connection.

All integers and floats are little-endian.

Frame

A frame looks like
  +----------------------+-------------------------------------------+
  | 10-byte frame header | payload: one message, possibly compressed |
  +----------------------+-------------------------------------------+

Frame header
        | 0| 1| 2| 3| 4| 5| 6| 7| 0| 1| 2| 3| 4| 5| 6| 7| 0| 1| 2| 3| 4| 5| 6| 7| 0| 1| 2| 3| 4| 5| 6| 7|
   byte |                      0|                      1|                      2|                      3|
  ------+-----------------------+-----------------------+-----------------------+-----------------------+
      0 | magic number                                  | protocol version      | channel id            |
  ------+-----------------------+-----------------------+-----------------------+-----------------------+
      4 | flags                 | reserved              | payload size                                  |
        +-----------------+--+--+                       |                                               |
        |                 |C |R |                       |                                               |
  ------+-----------------+--+--+-----------------------+-----------------------------------------------+
      8 | payload size (cont.)                          |
  ------+-----------------------------------------------+

  magic number:
    0x4C4C
  protocol version:
    1
  flags:
    R: 1 response, 0 request
    C: payload is snappy compressed

The payload size is the size on the wire. The channel id names the client
remote operation; requests and responses on the same channel are strictly
ordered, and the server answers them in the order they were sent.

Messages

Every message has one canonical field order, declared by its Fields method.
Messages come in three shapes:

  Record         fixed-width fields only
  Array          fixed header, optional element count, fixed-width elements
  HeaderPayload  fixed header, raw bytes up to the end of the frame

Examples

ScriptEntityAssignment (Record, 40 bytes)
  ------+-------------------------------------------------------------------+
      0 | client uuid (16 bytes)                                            |
  ------+-------------------------------------------------------------------+
     16 | script uuid (16 bytes)                                            |
  ------+-------------------------------------------------------------------+
     32 | entity rtid (8 bytes)                                             |
  ------+-------------------------------------------------------------------+

HighlightEntities (Array, no count prefix, 1 + 8 * n bytes)
  ------+-------------------------------------------------------------------+
      0 | keep old selection (1 byte)                                       |
  ------+-------------------------------------------------------------------+
      1 | entity rtid * n                                                   |
  ------+-------------------------------------------------------------------+

InputEvent (HeaderPayload, 1 + n bytes)
  ------+-------------------------------------------------------------------+
      0 | input operation (1 byte)                                          |
  ------+-------------------------------------------------------------------+
      1 | operation specific data, up to the end of the frame               |
  ------+-------------------------------------------------------------------+
*/
package proto
