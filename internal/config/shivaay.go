package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/veritas/pkg/log"
)

type ShivaayConfig struct {
	APIURL    string `env:"SHIVAAY_API_URL" envDefault:"https://api.futurixai.com/api/lara/v1/chat/completions"`
	AuthToken string `env:"SHIVAAY_AUTH_TOKEN,required,notEmpty"`
	Model     string `env:"SHIVAAY_MODEL" envDefault:"shivaay"`

	// Upper bound on a single completion stream. The transport default is
	// effectively unbounded, so this must stay explicit.
	StreamTimeout time.Duration `env:"SHIVAAY_STREAM_TIMEOUT" envDefault:"120s"`
}

func NewShivaayConfig(ctx context.Context) *ShivaayConfig {
	c := &ShivaayConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Shivaay config")
	}
	return c
}
