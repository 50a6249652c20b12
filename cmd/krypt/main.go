package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/kryptapp/krypt/internal/config"
	"github.com/kryptapp/krypt/internal/services/cache"
	"github.com/kryptapp/krypt/internal/services/ethrequest"
	"github.com/kryptapp/krypt/internal/services/giphy"
	"github.com/kryptapp/krypt/internal/services/ledger"
	"github.com/kryptapp/krypt/internal/services/report"
	"github.com/kryptapp/krypt/internal/services/wallet"
	"github.com/kryptapp/krypt/internal/services/webhook"
	"github.com/kryptapp/krypt/internal/storage"
	"github.com/kryptapp/krypt/pkg/krypt"
	"github.com/kryptapp/krypt/pkg/queue"
	"github.com/kryptapp/krypt/pkg/router"
	"github.com/kryptapp/krypt/pkg/store"
)

func main() {
	log.Default().Println("launching krypt...")

	env := flag.String("env", "", "path to .env file")

	port := flag.Int("port", 3000, "port to listen on")

	flag.Parse()

	ctx := context.Background()

	conf, err := config.New(ctx, *env)
	if err != nil {
		log.Fatal(err)
	}

	notifiers := []krypt.Notifier{}

	if conf.SentryURL != "" && conf.SentryURL != "x" {
		err = sentry.Init(sentry.ClientOptions{
			Dsn:     conf.SentryURL,
			Release: krypt.Version,
		})
		if err != nil {
			log.Fatalf("sentry.Init: %s", err)
		}
		// Flush buffered events before the program terminates.
		defer sentry.Flush(2 * time.Second)

		notifiers = append(notifiers, report.NewSentry())
	}

	if conf.DiscordURL != "" {
		notifiers = append(notifiers, webhook.NewMessager(conf.DiscordURL, "krypt", true))
	}

	log.Default().Println("connecting to rpc...")

	evm, err := ethrequest.NewEthService(ctx, conf.NodeRPCURL)
	if err != nil {
		log.Fatal(err)
	}
	defer evm.Close()

	log.Default().Println("fetching chain id...")

	chid, err := evm.ChainID()
	if err != nil {
		log.Fatal(err)
	}

	log.Default().Println("node running for chain: ", chid.String())

	var w krypt.WalletGateway
	switch {
	case conf.WalletPrivateKey != "":
		k, err := wallet.NewKey(conf.WalletPrivateKey, evm.Client())
		if err != nil {
			log.Fatal(err)
		}

		log.Default().Println("using key wallet: ", k.Address().Hex())
		w = k
	case conf.WalletRPCURL != "":
		r, err := wallet.NewRPC(ctx, conf.WalletRPCURL, evm)
		if err != nil {
			log.Fatal(err)
		}
		defer r.Close()

		log.Default().Println("using wallet provider: ", conf.WalletRPCURL)
		w = r
	default:
		log.Default().Println("no wallet configured, running read only")
		w = wallet.None{}
	}

	l, err := ledger.New(conf.Contract(), evm.Client(), w)
	if err != nil {
		log.Fatal(err)
	}

	log.Default().Println("ledger contract: ", l.Address().Hex())

	dir := storage.DataDir(conf.DataPath)

	log.Default().Println("opening cache in: ", dir)

	c, err := cache.New(dir)
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	log.Default().Println("starting notice queue...")

	q := queue.NewService(3, 100, ctx)
	defer q.Close()

	go func() {
		err := q.Start(queue.NewDeliverer())
		if err != nil {
			log.Default().Println(err)
		}
	}()

	st := store.New(w, l, c,
		store.WithConfirmTimeout(conf.ConfirmTimeout),
		store.WithGasLimit(conf.TransferGasLimit),
		store.WithNotifier(queue.NewNotifier(q, notifiers...)),
		store.WithObserver(func(s store.Snapshot) {
			log.Default().Printf("state: %s, busy: %v, transfers: %d", s.State, s.Busy, s.Count)
		}),
	)
	defer st.Close()

	err = st.Start(ctx)
	if err != nil {
		// the api stays up so the wallet can be connected later
		log.Default().Println(err)
	}

	log.Default().Println("starting api service...")

	api := router.NewServer(conf.APIKey, st, giphy.New(conf.GiphyBaseURL, conf.GiphyAPIKey))

	quitAck := make(chan error)

	go func() {
		quitAck <- api.Start(*port)
	}()

	log.Default().Println("listening on port: ", *port)

	for err := range quitAck {
		if err != nil {
			log.Fatal(err)
		}
	}
}
