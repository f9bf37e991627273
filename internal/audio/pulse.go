package audio

import (
	"context"
	"fmt"
	"strings"

	"github.com/jfreymuth/pulse"
	pulseproto "github.com/jfreymuth/pulse/proto"
)

func newPulseClient() (*pulse.Client, error) {
	client, err := pulse.NewClient(
		pulse.ClientApplicationName("mockello"),
		pulse.ClientApplicationIconName("audio-input-microphone"),
	)
	if err != nil {
		return nil, classifyPulseErr(fmt.Errorf("connect pulse server: %w", err))
	}
	return client, nil
}

// ListPulseDevices returns Pulse input sources with default/availability metadata.
func ListPulseDevices(_ context.Context) ([]Device, error) {
	client, err := newPulseClient()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	defaultSource, err := client.DefaultSource()
	if err != nil {
		return nil, fmt.Errorf("read default source: %w", err)
	}

	var infos pulseproto.GetSourceInfoListReply
	if err := client.RawRequest(&pulseproto.GetSourceInfoList{}, &infos); err != nil {
		return nil, classifyPulseErr(fmt.Errorf("list sources: %w", err))
	}

	devices := make([]Device, 0, len(infos))
	for _, info := range infos {
		if info == nil {
			continue
		}
		devices = append(devices, Device{
			ID:          info.SourceName,
			Description: info.Device,
			State:       sourceStateString(info.State),
			Available:   sourceAvailable(info),
			Muted:       info.Mute,
			Default:     info.SourceName == defaultSource.ID(),
		})
	}
	return devices, nil
}

// PulseStream records from one Pulse source.
type PulseStream struct {
	*chunker
	device Device
	client *pulse.Client
	stream *pulse.RecordStream
}

// OpenPulse resolves preferences and starts a 16kHz mono s16 record stream.
// The stream stops when ctx is cancelled.
func OpenPulse(ctx context.Context, input string, fallback string) (*PulseStream, error) {
	devices, err := ListPulseDevices(ctx)
	if err != nil {
		return nil, err
	}
	selection, err := choose(devices, input, fallback)
	if err != nil {
		return nil, err
	}

	client, err := newPulseClient()
	if err != nil {
		return nil, err
	}
	source, err := client.SourceByID(selection.Device.ID)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: resolve source %q: %v", ErrNoDevice, selection.Device.ID, err)
	}

	s := &PulseStream{
		chunker: newChunker(128),
		device:  selection.Device,
		client:  client,
	}
	stream, err := client.NewRecord(
		pulse.NewWriter(writerFunc(s.write), pulseproto.FormatInt16LE),
		pulse.RecordSource(source),
		pulse.RecordMono,
		pulse.RecordSampleRate(SampleRate),
		pulse.RecordBufferFragmentSize(ChunkSize),
		pulse.RecordMediaName("mockello interview"),
	)
	if err != nil {
		_ = s.Stop()
		return nil, classifyPulseErr(fmt.Errorf("create pulse record stream: %w", err))
	}
	s.stream = stream
	stream.Start()

	context.AfterFunc(ctx, func() { _ = s.Stop() })
	return s, nil
}

// Device returns the resolved source.
func (s *PulseStream) Device() Device {
	return s.device
}

// Chunks returns the PCM stream.
func (s *PulseStream) Chunks() <-chan []byte {
	return s.chunks
}

// BytesCaptured reports total bytes accepted from Pulse.
func (s *PulseStream) BytesCaptured() int64 {
	return s.bytes.Load()
}

// Stop is idempotent.
func (s *PulseStream) Stop() error {
	if !s.begin() {
		return nil
	}
	if s.stream != nil {
		s.stream.Stop()
		s.stream.Close()
	}
	if s.client != nil {
		s.client.Close()
	}
	s.finish()
	return nil
}

// classifyPulseErr tags server access refusals so callers can report them as
// permission problems rather than missing hardware.
func classifyPulseErr(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "access denied") || strings.Contains(msg, "permission denied") {
		return fmt.Errorf("%w: %v", ErrAccessDenied, err)
	}
	return err
}

func sourceStateString(state uint32) string {
	switch state {
	case 0:
		return "running"
	case 1:
		return "idle"
	case 2:
		return "suspended"
	default:
		return fmt.Sprintf("unknown(%d)", state)
	}
}

func sourceAvailable(source *pulseproto.GetSourceInfoReply) bool {
	if source == nil {
		return false
	}
	for _, port := range source.Ports {
		if port.Name == source.ActivePortName {
			// unknown=0, no=1, yes=2
			return port.Available != 1
		}
	}
	return true
}
