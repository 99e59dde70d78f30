package main

import (
	"context"

	"github.com/rook-computer/minihost/internal/config"
	"github.com/rook-computer/minihost/internal/input"
	"github.com/rook-computer/minihost/internal/logging"
)

// openInputs builds the input source for mode. The returned encoder is the
// one apps reset on entry.
func openInputs(ctx context.Context, cfg config.InputConfig, logger logging.Logger) (input.Source, input.Encoder, error) {
	switch cfg.Mode {
	case config.InputKeyboard:
		kb := &input.Keyboard{}
		kb.Start(ctx, logger)
		return kb.Reader(), &kb.Encoder, nil
	case config.InputNone:
		counter := &input.Counter{}
		return input.Reader{Encoder: counter}, counter, nil
	}

	if err := input.InitHost(); err != nil {
		return nil, nil, err
	}
	button, err := input.OpenButton(cfg.Button)
	if err != nil {
		return nil, nil, err
	}
	escape, err := input.OpenButton(cfg.Escape)
	if err != nil {
		return nil, nil, err
	}
	encoder, err := input.OpenQuadratureEncoder(cfg.EncoderA, cfg.EncoderB)
	if err != nil {
		return nil, nil, err
	}
	encoder.Logger = logger
	encoder.Start(ctx)
	logger.Infof("input", "gpio button=%s escape=%s", cfg.Button, cfg.Escape)
	return input.Reader{Button: button, Escape: escape, Encoder: encoder}, encoder, nil
}
