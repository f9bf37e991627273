package audio

import (
	"context"
	"fmt"
	"strings"

	"github.com/gen2brain/malgo"
)

// ListMalgoDevices enumerates capture devices through miniaudio.
func ListMalgoDevices(_ context.Context) ([]Device, error) {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("init miniaudio context: %w", err)
	}
	defer func() {
		_ = mctx.Uninit()
		mctx.Free()
	}()

	_, devices, err := malgoDevices(mctx)
	return devices, err
}

func malgoDevices(mctx *malgo.AllocatedContext) ([]malgo.DeviceInfo, []Device, error) {
	infos, err := mctx.Devices(malgo.Capture)
	if err != nil {
		return nil, nil, fmt.Errorf("enumerate capture devices: %w", err)
	}
	devices := make([]Device, 0, len(infos))
	for _, info := range infos {
		devices = append(devices, Device{
			ID:          info.ID.String(),
			Description: strings.TrimSpace(info.Name()),
			State:       "idle",
			Available:   true,
			Default:     info.IsDefault > 0,
		})
	}
	return infos, devices, nil
}

// MalgoStream records through a miniaudio capture device.
type MalgoStream struct {
	*chunker
	device Device
	mctx   *malgo.AllocatedContext
	dev    *malgo.Device
}

// OpenMalgo starts a 16kHz mono s16 miniaudio capture on the preferred device.
// The stream stops when ctx is cancelled.
func OpenMalgo(ctx context.Context, input string, fallback string) (*MalgoStream, error) {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: init miniaudio context: %v", ErrNoDevice, err)
	}

	infos, devices, err := malgoDevices(mctx)
	if err != nil {
		_ = mctx.Uninit()
		mctx.Free()
		return nil, err
	}
	selection, err := choose(devices, input, fallback)
	if err != nil {
		_ = mctx.Uninit()
		mctx.Free()
		return nil, err
	}

	s := &MalgoStream{
		chunker: newChunker(128),
		device:  selection.Device,
		mctx:    mctx,
	}

	cfg := malgo.DefaultDeviceConfig(malgo.Capture)
	cfg.Capture.Format = malgo.FormatS16
	cfg.Capture.Channels = 1
	cfg.SampleRate = SampleRate
	cfg.PeriodSizeInFrames = ChunkSize / 2
	for i := range infos {
		if infos[i].ID.String() == selection.Device.ID {
			cfg.Capture.DeviceID = infos[i].ID.Pointer()
			break
		}
	}

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, _ uint32) {
			_, _ = s.write(input)
		},
	}
	dev, err := malgo.InitDevice(mctx.Context, cfg, callbacks)
	if err != nil {
		_ = s.Stop()
		return nil, fmt.Errorf("%w: init capture device: %v", ErrNoDevice, err)
	}
	s.dev = dev
	if err := dev.Start(); err != nil {
		_ = s.Stop()
		return nil, fmt.Errorf("%w: start capture device: %v", ErrNoDevice, err)
	}

	context.AfterFunc(ctx, func() { _ = s.Stop() })
	return s, nil
}

// Device returns the resolved device.
func (s *MalgoStream) Device() Device {
	return s.device
}

// Chunks returns the PCM stream.
func (s *MalgoStream) Chunks() <-chan []byte {
	return s.chunks
}

// BytesCaptured reports total bytes delivered by miniaudio.
func (s *MalgoStream) BytesCaptured() int64 {
	return s.bytes.Load()
}

// Stop is idempotent.
func (s *MalgoStream) Stop() error {
	if !s.begin() {
		return nil
	}
	var stopErr error
	if s.dev != nil {
		stopErr = s.dev.Stop()
		s.dev.Uninit()
	}
	if s.mctx != nil {
		_ = s.mctx.Uninit()
		s.mctx.Free()
	}
	s.finish()
	if stopErr != nil {
		return fmt.Errorf("stop capture device: %w", stopErr)
	}
	return nil
}
