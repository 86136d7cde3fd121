// Command receiptctl submits receipts to a running receipt processor and
// looks up their points.
//
// Usage:
//
//	receiptctl [-s http://localhost:8080] process -f receipt.json
//	receiptctl [-s http://localhost:8080] points <id>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/iurnickita/receiptprocessor/internal/receiptclient"
)

const defaultServiceAddr = "http://localhost:8080"

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("receiptctl", flag.ContinueOnError)
	serviceAddr := fs.String("s", defaultServiceAddr, "receipt processor base URL")
	timeout := fs.Duration("t", 10*time.Second, "request timeout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if env, ok := os.LookupEnv("RECEIPTS_ADDRESS"); ok && env != "" {
		*serviceAddr = env
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client := receiptclient.NewClient(*serviceAddr)

	switch fs.Arg(0) {
	case "process":
		return process(ctx, client, fs.Args()[1:], stdin, stdout)
	case "points":
		if fs.NArg() != 2 {
			return errors.New("usage: receiptctl points <id>")
		}
		points, err := client.Points(ctx, fs.Arg(1))
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, points)
		return nil
	default:
		return fmt.Errorf("unknown command %q, want process or points", fs.Arg(0))
	}
}

func process(ctx context.Context, client receiptclient.Client, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("process", flag.ContinueOnError)
	file := fs.String("f", "-", "receipt JSON file, - for stdin")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var data []byte
	var err error
	if *file == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(*file)
	}
	if err != nil {
		return err
	}

	receipt, err := receiptclient.FromJSON(data)
	if err != nil {
		return fmt.Errorf("cannot parse receipt: %w", err)
	}

	id, err := client.Process(ctx, receipt)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, id)
	return nil
}
