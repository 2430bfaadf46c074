package main

import (
	"context"
	"errors"
	goflag "flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/AndrewLester/sntp/internal/ntp"
	"github.com/AndrewLester/sntp/internal/transport"
	"github.com/AndrewLester/sntp/pkg/sntp"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"
)

const usage = "Uso: sntp <IP do servidor>"

const (
	resultPrefix         = "Data/hora: "
	malformedMessage     = "erro ao interpretar a resposta"
	noResponseMessage    = "não foi possível contactar servidor"
	invalidAddressFormat = "Endereço IP inválido: %s\n"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var port int
	var timeout time.Duration
	var interactive bool

	flags := pflag.NewFlagSet("sntp", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.IntVar(&port, "port", ntp.Port, "UDP port of the server.")
	flags.DurationVar(&timeout, "timeout", sntp.DefaultTimeout, "How long to wait for the reply.")
	flags.BoolVarP(&interactive, "interactive", "i", false, "Show a progress bar while waiting for the reply.")

	klogFlags := goflag.NewFlagSet("klog", goflag.ContinueOnError)
	klog.InitFlags(klogFlags)
	flags.AddGoFlagSet(klogFlags)

	flags.Usage = func() {
		fmt.Fprintln(stderr, usage)
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		flags.Usage()
		return 1
	}
	defer klog.Flush()

	if flags.NArg() < 1 {
		fmt.Fprintln(stderr, usage)
		return 1
	}

	address := flags.Arg(0)
	if !sntp.IsValidAddress(address) {
		fmt.Fprintf(stderr, invalidAddressFormat, address)
		return 1
	}

	client := &sntp.Client{
		Port:      port,
		Timeout:   timeout,
		Transport: transport.UDP{},
	}

	var result *sntp.Result
	var err error
	if interactive {
		result, err = queryInteractive(client, address)
	} else {
		result, err = client.Query(context.Background(), address)
	}

	fmt.Fprintln(stdout, resultLine(result, err))
	return 0
}

// resultLine collapses every failure into one of two messages.
func resultLine(result *sntp.Result, err error) string {
	switch {
	case err == nil:
		return resultPrefix + result.Formatted
	case errors.Is(err, sntp.ErrMalformedResponse):
		return resultPrefix + malformedMessage
	default:
		return resultPrefix + noResponseMessage
	}
}
