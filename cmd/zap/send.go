package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/btcsuite/btcutil"
	"github.com/urfave/cli/v2"

	"github.com/satrat/zapwire"
	"github.com/satrat/zapwire/relay"
)

var sendCommand = &cli.Command{
	Name:  "send",
	Usage: "Zap a lightning address and wait for the receipt",
	Description: `Resolves the address, negotiates an invoice for the
	given amount and waits for the zap receipt on the configured
	relay. The invoice is printed so it can be paid with any wallet;
	pass --pay to settle it through the connected lnd node instead.`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "to",
			Usage: "The lightning address to zap, e.g. alice@example.com",
		},
		&cli.Int64Flag{
			Name:  "amt",
			Usage: "The amount to zap, in satoshis",
		},
		&cli.BoolFlag{
			Name:  "pay",
			Usage: "pay the negotiated invoice through lnd",
		},
		&cli.Int64Flag{
			Name:  "maxfee",
			Usage: "max fee for the payment (in satoshis)",
			Value: 10,
		},
	},
	Action: send,
}

func send(ctx *cli.Context) error {
	address := ctx.String("to")
	if address == "" {
		return fmt.Errorf("missing '--to' flag")
	}
	amt := ctx.Int64("amt")
	if amt <= 0 {
		return fmt.Errorf("missing '--amt' flag")
	}

	relays := ctx.StringSlice("relay")

	flow := zapwire.NewFlow(
		zapwire.Config{
			MinAmountSats:  1,
			ReceiptTimeout: ctx.Duration("timeout"),
			Relays:         relays,
		},
		&zapwire.HTTPGetter{},
		&relay.Client{URL: relays[0]},
	)
	flow.OnReject = func(ev *zapwire.Event, reason string) {
		log.Printf("ignoring event %s: %s", ev.ID, reason)
	}

	session, err := flow.Start(ctx.Context, address, amt)
	if err != nil {
		return err
	}

	fmt.Printf("Session %s: zapping %d sats to %s\n", session.ID,
		session.AmountSats, session.RecipientAddress)
	fmt.Printf("Invoice: %s\n", session.Invoice)

	if ctx.Bool("pay") {
		lndClient, err := getLND(ctx)
		if err != nil {
			return fmt.Errorf("could not connect to LND: %w", err)
		}

		res := <-lndClient.Client.PayInvoice(
			ctx.Context, session.Invoice,
			btcutil.Amount(ctx.Int64("maxfee")), nil,
		)
		if res.Err != nil {
			return fmt.Errorf("could not pay invoice: %w",
				res.Err)
		}

		fmt.Printf("Paid. Preimage: %s\n", res.Preimage)
	} else {
		fmt.Println("Pay the invoice above, waiting for the receipt...")
	}

	outcome, err := flow.Await(ctx.Context, session)
	if errors.Is(err, zapwire.ErrReceiptTimeout) {
		return fmt.Errorf("no receipt within %v", ctx.Duration("timeout"))
	}
	if err != nil {
		return err
	}

	fmt.Printf(
		"Zap confirmed!\n"+
			"  amount:  %d sats\n"+
			"  sender:  %s\n"+
			"  receipt: %s\n"+
			"  bolt11:  %s\n",
		outcome.AmountSats, outcome.SenderPubkey, outcome.EventID,
		outcome.Bolt11,
	)

	return nil
}
