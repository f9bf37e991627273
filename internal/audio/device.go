// Package audio discovers input devices and streams 16kHz mono PCM from them.
package audio

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoDevice reports that no usable input source could be resolved.
	ErrNoDevice = errors.New("no usable audio input device")
	// ErrAccessDenied reports that the audio server refused access to a source.
	ErrAccessDenied = errors.New("audio input access denied")
)

// Device describes one capture source.
type Device struct {
	ID          string
	Description string
	State       string
	Available   bool
	Muted       bool
	Default     bool
}

// Selection is the resolved capture source plus optional fallback context.
type Selection struct {
	Device   Device
	Warning  string
	Fallback bool
}

// choose applies audio.input/audio.fallback preferences to a device list.
//
// An input of "" or "default" means the server default source. A primary
// source that is unavailable or muted falls back to the fallback source.
func choose(devices []Device, input string, fallback string) (Selection, error) {
	if len(devices) == 0 {
		return Selection{}, fmt.Errorf("%w: no input sources reported", ErrNoDevice)
	}

	primary, err := lookup(devices, input)
	if err != nil {
		return Selection{}, fmt.Errorf("audio.input: %w", err)
	}
	if usable(primary) {
		return Selection{Device: primary}, nil
	}

	reason := "unavailable"
	if primary.Muted {
		reason = "muted"
	}

	alt, err := lookup(devices, fallback)
	if err != nil {
		return Selection{}, fmt.Errorf("input %q is %s and fallback failed: %w", primary.ID, reason, err)
	}
	if !alt.Available {
		return Selection{}, fmt.Errorf("%w: fallback %q is not available", ErrNoDevice, alt.ID)
	}
	if alt.Muted {
		return Selection{}, fmt.Errorf("%w: fallback %q is muted", ErrNoDevice, alt.ID)
	}

	return Selection{
		Device:   alt,
		Warning:  fmt.Sprintf("audio.input %q is %s; using %q", primary.ID, reason, alt.ID),
		Fallback: alt.ID != primary.ID,
	}, nil
}

// lookup resolves one preference term against the device list.
func lookup(devices []Device, term string) (Device, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" || term == "default" {
		for _, dev := range devices {
			if dev.Default {
				return dev, nil
			}
		}
		return Device{}, fmt.Errorf("%w: default source is unavailable", ErrNoDevice)
	}
	for _, dev := range devices {
		if deviceMatches(dev, term) {
			return dev, nil
		}
	}
	return Device{}, fmt.Errorf("%w: %q did not match any device", ErrNoDevice, term)
}

func usable(dev Device) bool {
	return dev.Available && !dev.Muted
}

// deviceMatches reports whether a lowercase term matches a device id or description.
func deviceMatches(device Device, term string) bool {
	if term == "" {
		return false
	}
	return strings.Contains(strings.ToLower(device.ID), term) ||
		strings.Contains(strings.ToLower(device.Description), term)
}
