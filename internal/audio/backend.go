package audio

import (
	"context"
	"fmt"
	"strings"
)

// Backend names an audio server integration.
type Backend string

const (
	BackendPulse Backend = "pulse"
	BackendMalgo Backend = "malgo"
)

// Options selects a backend and device preferences for Open.
type Options struct {
	Backend  Backend
	Input    string
	Fallback string
}

// ParseBackend normalizes a configured backend name.
func ParseBackend(raw string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(raw))); b {
	case "", BackendPulse:
		return BackendPulse, nil
	case BackendMalgo:
		return BackendMalgo, nil
	default:
		return "", fmt.Errorf("unknown audio backend %q", raw)
	}
}

// ListDevices enumerates capture devices on the selected backend.
func ListDevices(ctx context.Context, backend Backend) ([]Device, error) {
	if backend == BackendMalgo {
		return ListMalgoDevices(ctx)
	}
	return ListPulseDevices(ctx)
}

// SelectDevice resolves preferences against live devices without opening a stream.
func SelectDevice(ctx context.Context, opts Options) (Selection, error) {
	devices, err := ListDevices(ctx, opts.Backend)
	if err != nil {
		return Selection{}, err
	}
	return choose(devices, opts.Input, opts.Fallback)
}

// Open starts a capture stream on the selected backend.
func Open(ctx context.Context, opts Options) (Stream, error) {
	if opts.Backend == BackendMalgo {
		return OpenMalgo(ctx, opts.Input, opts.Fallback)
	}
	return OpenPulse(ctx, opts.Input, opts.Fallback)
}
