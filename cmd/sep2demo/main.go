// Command sep2demo wires a Client, an optional ClientNotifServer, and the
// poll scheduler together end to end: a thin urfave/cli wrapper over the
// library packages, not a reimplementation of their logic.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/synergy-au/sep2go/client"
	"github.com/synergy-au/sep2go/internal/seplog"
	"github.com/synergy-au/sep2go/notifserver"
	"github.com/synergy-au/sep2go/resource"
	"github.com/synergy-au/sep2go/response"
)

func main() {
	app := &cli.App{
		Name:  "sep2demo",
		Usage: "demonstrate an IEEE 2030.5 client against a running server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "server-addr", Required: true, Usage: "base URI of the 2030.5 server, e.g. https://host:port"},
			&cli.PathFlag{Name: "cert", Required: true, Usage: "client certificate PEM path"},
			&cli.PathFlag{Name: "key", Required: true, Usage: "client private key PEM path"},
			&cli.PathFlag{Name: "rootca", Required: true, Usage: "trust root PEM path"},
			&cli.StringFlag{Name: "path", Value: "/dcap", Usage: "resource path to GET"},
			&cli.BoolFlag{Name: "notify", Usage: "also start the notification receiver"},
			&cli.StringFlag{Name: "listen-addr", Value: "0.0.0.0:8443", Usage: "notification receiver listen address"},
			&cli.StringFlag{Name: "server-cert", Usage: "notification receiver server certificate PEM path"},
			&cli.StringFlag{Name: "server-key", Usage: "notification receiver server key PEM path"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	zapLog, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer zapLog.Sync()
	log := seplog.New(zapLog, "sep2demo")

	cl, err := client.New(client.Config{
		ServerAddr: c.String("server-addr"),
		CertPath:   c.String("cert"),
		KeyPath:    c.String("key"),
		RootCAPath: c.String("rootca"),
		Log:        log.Named("client"),
	})
	if err != nil {
		return fmt.Errorf("building client: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	dcap, err := client.Get[resource.DeviceCapability](ctx, cl, c.String("path"))
	if err != nil {
		return fmt.Errorf("GET %s: %w", c.String("path"), err)
	}
	log.Infof("fetched %s from %s", dcap.SEName(), c.String("path"))

	if !c.Bool("notify") {
		return nil
	}

	srv, err := notifserver.Configure(notifserver.Config{
		ListenAddr: c.String("listen-addr"),
		CertPath:   c.String("server-cert"),
		KeyPath:    c.String("server-key"),
		RootCAPath: c.String("rootca"),
		Log:        log.Named("notifserver"),
	})
	if err != nil {
		return fmt.Errorf("configuring notification server: %w", err)
	}

	notifserver.Add[resource.EndDevice](srv, "/notif/edev", log.Named("notifserver"),
		func(_ context.Context, n resource.Notification[resource.EndDevice]) response.SepResponse {
			log.Infof("received notification for %s", n.Resource.SEName())
			return response.NoContent()
		})

	client.StartPoll[resource.DeviceCapability](ctx, cl, c.String("path"), client.PollOptions{Rate: 15 * time.Minute},
		func(r resource.DeviceCapability) {
			log.Infof("poll refreshed %s", r.SEName())
		})

	return srv.Run(ctx)
}
