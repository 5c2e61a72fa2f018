package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/enonoeno/housingbot/internal/bot"
	"github.com/enonoeno/housingbot/internal/chat"
	"github.com/enonoeno/housingbot/internal/store"
)

func main() {
	configPath := pflag.StringP("config", "c", "conf/housingbot.yaml", "path to the config file")
	pflag.Parse()

	cfg, err := bot.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.TokenFile != "" {
		tok, err := bot.ReadToken(cfg.TokenFile)
		if err != nil {
			log.Fatal(err)
		}
		cfg.Gateway.Token = tok
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatal(err)
	}

	dir, err := bot.LoadDirectory(cfg.DirectoryFile)
	if err != nil {
		log.Fatal(err)
	}

	client := chat.New(cfg.Gateway)
	b := bot.New(client, store.New(cfg.DataDir), dir)
	b.SetTimezone(loc)
	b.SetScanMinute(cfg.ScanMinute)
	b.SetPrefix(cfg.Prefix)
	if cfg.CookiesFile != "" {
		if err := b.UseCookies(cfg.CookiesFile); err != nil {
			log.Fatal(err)
		}
	}
	b.Attach(client)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := client.Connect(ctx); err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect()

	if err := b.Start(); err != nil {
		log.Fatal(err)
	}
	defer b.Stop()

	log.Println("running, press Ctrl+C to stop")
	<-ctx.Done()
}
