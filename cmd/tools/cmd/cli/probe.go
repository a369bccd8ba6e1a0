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
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/panjf2000/ants"

	"livelink/pkg/client"
	"livelink/pkg/cmd"
	"livelink/pkg/proto"
)

type cmdProbeT struct {
	cmd.Command
	optConfig  string
	optServer  string
	optApp     string
	optTimeout time.Duration
	optCount   int
	optWorkers int
	optCamera  uint64
	config     client.Config
}

func (c *cmdProbeT) Init(name string, desc string) {
	c.Command.Init(name, desc)
	c.StringOption(&c.optConfig, "c|config", "", "client config toml file")
	c.StringOption(&c.optServer, "s|server", "", "gateway url, overrides the config file")
	c.StringOption(&c.optApp, "app", "llcli", "application name")
	c.DurationOption(&c.optTimeout, "t|timeout", 0, "request timeout, overrides the config file")
	c.IntOption(&c.optCount, "n", 10, "number of camera transform queries")
	c.IntOption(&c.optWorkers, "p|parallel", 1, "number of queries in flight at a time")
	c.ValueOption(rtidValue{&c.optCamera}, "camera", "RTID of the camera to query")
	c.SetSynopsis("[options] [-s <url>]")
	c.AddDetails("\tConnects to a gateway, configures the client, then measures request\n\tround trips on the camera transform channel.\n")
	c.AddExample(name+" -s ws://127.0.0.1:7000/session -n 100", "probe a local gateway")
}

func (c *cmdProbeT) Parse(args []string) (err error) {
	if err = c.Command.Parse(args); err != nil {
		return
	}
	if c.optConfig != "" {
		if c.config, err = client.LoadConfig(c.optConfig); err != nil {
			return
		}
	} else {
		c.config.SetDefault()
	}
	if c.optServer != "" {
		c.config.Server = c.optServer
	}
	if c.config.Appname == "" {
		c.config.Appname = c.optApp
	}
	if c.optTimeout > 0 {
		c.config.RequestTimeout.Duration = c.optTimeout
	}
	if c.optCount < 0 {
		err = fmt.Errorf("negative count")
	} else if c.optWorkers < 1 {
		err = fmt.Errorf("parallel must be at least 1")
	}
	return
}

func (c *cmdProbeT) Exec() {
	c.Validate()
	if err := probe(context.Background(), os.Stdout, c.config, proto.RTID(c.optCamera), c.optCount, c.optWorkers); err != nil {
		glog.Exitf("probe failed: %s", err)
	}
}

func probe(ctx context.Context, w io.Writer, conf client.Config, camera proto.RTID, count int, workers int) error {
	conn, err := client.Dial(ctx, conf)
	if err != nil {
		return err
	}
	defer conn.Close()

	ack, err := conn.ConfigureClient(proto.ClientConfig{
		RenderingAreaSize: proto.Vec2u16{X: 1280, Y: 720},
		Encoder: proto.EncoderConfig{
			Codec:     proto.CodecTypeH264,
			Profile:   proto.CodecProfileMain,
			FrameRate: 30,
		},
		SupportedDevices: proto.DeviceKeyboard | proto.DeviceMouse,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "configured: codec=%s profile=%s fps=%d area=%s\n",
		ack.Encoder.Codec, ack.Encoder.Profile, ack.Encoder.FrameRate, ack.RenderingAreaSize)

	if err = queryCamera(conn, camera, count, workers); err != nil {
		return err
	}
	writeStats(w, conn.Stats())
	return nil
}

// queryCamera sends count camera transform queries, at most workers of them
// in flight, and returns the first error.
func queryCamera(conn client.IClient, camera proto.RTID, count int, workers int) error {
	pool, err := ants.NewPool(workers)
	if err != nil {
		return err
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for i := 0; i < count; i++ {
		wg.Add(1)
		err = pool.Submit(func() {
			defer wg.Done()
			if _, e := conn.GetCameraTransform(camera); e != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = e
				}
				mu.Unlock()
			}
		})
		if err != nil {
			wg.Done()
			break
		}
	}
	wg.Wait()
	if firstErr != nil {
		return firstErr
	}
	return err
}

func writeStats(w io.Writer, stats map[proto.ChannelID]client.LatencySummary) {
	channels := make([]proto.ChannelID, 0, len(stats))
	for ch := range stats {
		channels = append(channels, ch)
	}
	sort.Slice(channels, func(i, j int) bool { return channels[i] < channels[j] })
	for _, ch := range channels {
		s := stats[ch]
		fmt.Fprintf(w, "%-20s n=%d min=%v p50=%v p99=%v max=%v\n", ch, s.Count, s.Min, s.P50, s.P99, s.Max)
	}
}

type rtidValue struct {
	p *uint64
}

func (v rtidValue) String() string {
	if v.p == nil {
		return "0"
	}
	return proto.RTID(*v.p).String()
}

func (v rtidValue) Set(s string) (err error) {
	_, err = fmt.Sscan(s, v.p)
	return
}

func init() {
	c := &cmdProbeT{}
	c.Init("probe", "connect to a gateway and measure request round trips")

	cmd.Register(c)
}
