package main

import "errors"

var (
	ErrMissingSubcommand = errors.New("must specify a subcommand")
	ErrUnknownPreset     = errors.New("unknown curve preset")
	ErrInvalidArgs       = errors.New("invalid args")
)
