package audio

import (
	"context"
	"reflect"
	"testing"

	pulseproto "github.com/jfreymuth/pulse/proto"
	"github.com/stretchr/testify/require"
)

func TestListPulseDevicesFailsWhenPulseUnavailable(t *testing.T) {
	t.Setenv("PULSE_SERVER", "unix:/tmp/definitely-missing-pulse-server")
	_, err := ListPulseDevices(context.Background())
	require.Error(t, err)
}

func TestOpenPulseFailsWhenPulseUnavailable(t *testing.T) {
	t.Setenv("PULSE_SERVER", "unix:/tmp/definitely-missing-pulse-server")
	_, err := Open(context.Background(), Options{Backend: BackendPulse, Input: "default"})
	require.Error(t, err)
}

func TestClassifyPulseErr(t *testing.T) {
	err := classifyPulseErr(errorString("connect pulse server: Access denied"))
	require.ErrorIs(t, err, ErrAccessDenied)

	other := classifyPulseErr(errorString("connection refused"))
	require.NotErrorIs(t, other, ErrAccessDenied)
}

func TestSourceStateString(t *testing.T) {
	require.Equal(t, "running", sourceStateString(0))
	require.Equal(t, "idle", sourceStateString(1))
	require.Equal(t, "suspended", sourceStateString(2))
	require.Equal(t, "unknown(7)", sourceStateString(7))
}

func TestSourceAvailable(t *testing.T) {
	require.False(t, sourceAvailable(nil))
	require.True(t, sourceAvailable(&pulseproto.GetSourceInfoReply{}))

	plugged := &pulseproto.GetSourceInfoReply{ActivePortName: "headset"}
	setSourcePorts(t, plugged, []sourcePort{{name: "headset", available: 2}})
	require.True(t, sourceAvailable(plugged))

	unplugged := &pulseproto.GetSourceInfoReply{ActivePortName: "headset"}
	setSourcePorts(t, unplugged, []sourcePort{{name: "internal", available: 2}, {name: "headset", available: 1}})
	require.False(t, sourceAvailable(unplugged))
}

type errorString string

func (e errorString) Error() string { return string(e) }

type sourcePort struct {
	name      string
	available uint32
}

func setSourcePorts(t *testing.T, reply *pulseproto.GetSourceInfoReply, ports []sourcePort) {
	t.Helper()

	sliceValue := reflect.MakeSlice(reflect.TypeOf(reply.Ports), len(ports), len(ports))
	for i, port := range ports {
		item := sliceValue.Index(i)
		item.FieldByName("Name").SetString(port.name)
		item.FieldByName("Available").SetUint(uint64(port.available))
	}
	reflect.ValueOf(reply).Elem().FieldByName("Ports").Set(sliceValue)
}
