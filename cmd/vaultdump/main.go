// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-vault-access/internal/app"
	"github.com/MKhiriev/go-vault-access/internal/client"
	"github.com/MKhiriev/go-vault-access/internal/config"
	"github.com/MKhiriev/go-vault-access/internal/logger"
	"github.com/MKhiriev/go-vault-access/internal/mfa"
	"github.com/MKhiriev/go-vault-access/internal/tui"
	"github.com/MKhiriev/go-vault-access/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	printBuildInfo(buildInfo)

	log := logger.NewClientLogger("vaultdump")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if cfg.Adapter.UserAgent == config.DefaultUserAgent {
		cfg.Adapter.UserAgent = buildInfo.UserAgent(config.DefaultUserAgent)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ui := tui.New(log, buildInfo)

	app, err := client.NewApp(ctx, cfg, ui, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	err = app.Run(ctx)
	if cerr := app.Close(); cerr != nil {
		log.Error().Err(cerr).Msg("close secure storage")
	}
	if err != nil {
		stop()
		code := exitCode(err)
		if code != exitCanceled {
			log.Error().Err(err).Msg("client run error")
			fmt.Fprintln(os.Stderr, tui.Humanize(err))
		}
		os.Exit(code)
	}
}

const (
	exitFailure  = 1
	exitCanceled = 130
)

// exitCode is 130 when the user gave up, like a shell interrupted by ^C.
func exitCode(err error) int {
	switch {
	case errors.Is(err, app.ErrCanceledMultiFactor),
		errors.Is(err, mfa.ErrCanceled),
		errors.Is(err, context.Canceled):
		return exitCanceled
	default:
		return exitFailure
	}
}

// printBuildInfo writes to stderr so that "-o -" keeps stdout pure JSON.
func printBuildInfo(info models.AppBuildInfo) {
	fmt.Fprintf(os.Stderr, "Build version: %s\n", info.BuildVersion())
	fmt.Fprintf(os.Stderr, "Build date: %s\n", info.BuildDate())
	fmt.Fprintf(os.Stderr, "Build commit: %s\n", info.BuildCommit())
}
