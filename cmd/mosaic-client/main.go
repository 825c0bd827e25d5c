// Command mosaic-client is a minimal smoke-test client: it connects to
// a mosaicd instance, says HELLO, submits one signed record, and issues
// a GET for it, printing each step. It exists for manual testing the
// way the original crate's example client/server pair did.
package main

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	mosaic "github.com/mosaic-network/mosaic-server"
	"github.com/mosaic-network/mosaic-server/internal/transport"
)

func run(addr string, payload []byte) error {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return fmt.Errorf("generate client key: %w", err)
	}

	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	tc := transport.NewTCP(conn)
	defer tc.Close()

	ctx := context.Background()

	if err := tc.Send(ctx, mosaic.NewHello(mosaic.SupportedMajorVersion, []uint32{0}).AsBytes()); err != nil {
		return fmt.Errorf("send hello: %w", err)
	}
	ackRaw, err := tc.Receive(ctx)
	if err != nil {
		return fmt.Errorf("receive hello ack: %w", err)
	}
	ack, err := mosaic.DecodeMessage(ackRaw)
	if err != nil || ack.Type != mosaic.MessageTypeHelloAck {
		return fmt.Errorf("unexpected hello response")
	}
	fmt.Println("hello acknowledged")

	rec, err := mosaic.NewRecord(priv, mosaic.RecordParts{
		Timestamp: time.Now().UnixMicro(),
		Payload:   payload,
	})
	if err != nil {
		return fmt.Errorf("build record: %w", err)
	}

	if err := tc.Send(ctx, mosaic.NewSubmission(rec.Bytes()).AsBytes()); err != nil {
		return fmt.Errorf("send submission: %w", err)
	}
	resultRaw, err := tc.Receive(ctx)
	if err != nil {
		return fmt.Errorf("receive submission result: %w", err)
	}
	resultMsg, err := mosaic.DecodeMessage(resultRaw)
	if err != nil {
		return fmt.Errorf("decode submission result: %w", err)
	}
	id, code, err := mosaic.DecodeSubmissionResult(resultMsg)
	if err != nil {
		return fmt.Errorf("parse submission result: %w", err)
	}
	fmt.Printf("submission result: id=%x code=%d\n", id, code)

	ref, err := rec.Reference()
	if err != nil {
		return fmt.Errorf("derive reference: %w", err)
	}
	if err := tc.Send(ctx, mosaic.NewGet(1, []mosaic.Reference{ref}).AsBytes()); err != nil {
		return fmt.Errorf("send get: %w", err)
	}
	for {
		raw, err := tc.Receive(ctx)
		if err != nil {
			return fmt.Errorf("receive get response: %w", err)
		}
		m, err := mosaic.DecodeMessage(raw)
		if err != nil {
			return fmt.Errorf("decode get response: %w", err)
		}
		if m.Type == mosaic.MessageTypeQueryClosed {
			_, code, err := mosaic.DecodeQueryClosed(m)
			if err != nil {
				return fmt.Errorf("parse query closed: %w", err)
			}
			fmt.Printf("query closed: code=%d\n", code)
			return nil
		}
		fmt.Printf("received record frame (%d bytes)\n", len(m.Body()))
	}
}

func main() {
	app := &cli.App{
		Name:  "mosaic-client",
		Usage: "smoke-test a mosaicd instance",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Value: "127.0.0.1:8765", Usage: "server address"},
			&cli.StringFlag{Name: "payload", Value: "hello", Usage: "payload to submit"},
		},
		Action: func(c *cli.Context) error {
			return run(c.String("addr"), []byte(c.String("payload")))
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "mosaic-client:", err)
		os.Exit(1)
	}
}
