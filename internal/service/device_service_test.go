package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlee0412/frok-server/internal/devices"
	apperrors "github.com/mlee0412/frok-server/internal/errors"
	"github.com/mlee0412/frok-server/internal/model"
	"github.com/mlee0412/frok-server/internal/service"
	"github.com/mlee0412/frok-server/internal/system"
)

type fakeCommander struct {
	domain, service, entityID string
	data                      map[string]any
	err                       error
}

func (f *fakeCommander) CallService(_ context.Context, domain, svc, entityID string, data map[string]any) error {
	f.domain, f.service, f.entityID, f.data = domain, svc, entityID, data
	return f.err
}

type staticSource struct {
	items []model.Device
}

func (s staticSource) States(context.Context) ([]model.Device, error) {
	return s.items, nil
}

func setupDeviceService(cmd *fakeCommander) *service.DeviceService {
	rec := devices.NewReconciler(devices.NewSlogNotifier())
	rec.Apply(model.DeviceSnapshot{TS: 1, Items: []model.Device{
		{ID: "light.kitchen", Name: "Kitchen", Type: "light", State: "on"},
	}})
	hub := devices.NewHub(staticSource{}, rec, time.Minute)
	prober := system.NewProber(nil, nil, time.Minute)
	return service.NewDeviceService(hub, prober, cmd)
}

func TestDeviceService_Devices(t *testing.T) {
	svc := setupDeviceService(&fakeCommander{})

	snap := svc.Devices()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "light.kitchen", snap.Items[0].ID)
	assert.NotZero(t, snap.TS)
}

func TestDeviceService_Command(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		deviceID    string
		action      string
		wantDomain  string
		wantService string
	}{
		{"Light on", "light.kitchen", "on", "light", "turn_on"},
		{"Switch off", "switch.heater", "off", "switch", "turn_off"},
		{"Cover open", "cover.garage", "on", "cover", "open_cover"},
		{"Cover close", "cover.garage", "off", "cover", "close_cover"},
		{"Toggle", "light.kitchen", "toggle", "light", "toggle"},
		{"Raw service passthrough", "climate.living_room", "set_temperature", "climate", "set_temperature"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &fakeCommander{}
			svc := setupDeviceService(cmd)

			err := svc.Command(ctx, tt.deviceID, &service.CommandRequest{Action: tt.action})
			require.NoError(t, err)
			assert.Equal(t, tt.wantDomain, cmd.domain)
			assert.Equal(t, tt.wantService, cmd.service)
			assert.Equal(t, tt.deviceID, cmd.entityID)
		})
	}

	t.Run("Command data is forwarded", func(t *testing.T) {
		cmd := &fakeCommander{}
		svc := setupDeviceService(cmd)

		data := map[string]any{"temperature": 21.5}
		err := svc.Command(ctx, "climate.living_room", &service.CommandRequest{Action: "set_temperature", Data: data})
		require.NoError(t, err)
		assert.Equal(t, data, cmd.data)
	})

	t.Run("Device id without a domain is rejected", func(t *testing.T) {
		svc := setupDeviceService(&fakeCommander{})
		err := svc.Command(ctx, "kitchen", &service.CommandRequest{Action: "on"})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("Bridge failure maps upstream", func(t *testing.T) {
		cmd := &fakeCommander{err: errors.New("connection refused")}
		svc := setupDeviceService(cmd)
		err := svc.Command(ctx, "light.kitchen", &service.CommandRequest{Action: "on"})
		assert.ErrorIs(t, err, apperrors.ErrUpstream)
	})

	t.Run("Aborted command maps to canceled, not upstream", func(t *testing.T) {
		cmd := &fakeCommander{err: context.Canceled}
		svc := setupDeviceService(cmd)
		err := svc.Command(ctx, "light.kitchen", &service.CommandRequest{Action: "on"})
		assert.ErrorIs(t, err, apperrors.ErrCanceled)
		assert.NotErrorIs(t, err, apperrors.ErrUpstream)
	})
}
