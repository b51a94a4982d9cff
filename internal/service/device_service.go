package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mlee0412/frok-server/internal/devices"
	apperrors "github.com/mlee0412/frok-server/internal/errors"
	"github.com/mlee0412/frok-server/internal/model"
	"github.com/mlee0412/frok-server/internal/system"
)

// Commander executes a Home Assistant service call against one entity.
type Commander interface {
	CallService(ctx context.Context, domain, service, entityID string, data map[string]any) error
}

// CommandRequest is a device command from the client.
type CommandRequest struct {
	Action string         `json:"action" validate:"required"`
	Data   map[string]any `json:"data,omitempty"`
}

// DeviceService fronts the device hub and the system prober for the HTTP
// layer and routes device commands to Home Assistant.
type DeviceService struct {
	hub       *devices.Hub
	prober    *system.Prober
	commander Commander
}

func NewDeviceService(hub *devices.Hub, prober *system.Prober, commander Commander) *DeviceService {
	return &DeviceService{hub: hub, prober: prober, commander: commander}
}

// Devices returns the current full device snapshot.
func (s *DeviceService) Devices() model.DeviceSnapshot {
	return s.hub.Snapshot()
}

// SubscribeDevices registers a devices-stream consumer.
func (s *DeviceService) SubscribeDevices() (<-chan model.DeviceSnapshot, func()) {
	return s.hub.Subscribe()
}

// SubscribeSystem registers a system-stream consumer.
func (s *DeviceService) SubscribeSystem() (<-chan model.SystemHealth, func()) {
	return s.prober.Subscribe()
}

// SystemHealth returns the most recent probe result, or nil before the
// first probe completes.
func (s *DeviceService) SystemHealth() *model.SystemHealth {
	return s.prober.Last()
}

// Command executes an action against a device. The short actions on, off
// and toggle are translated per domain; anything else is passed through as
// a Home Assistant service name (e.g. set_temperature).
func (s *DeviceService) Command(ctx context.Context, deviceID string, req *CommandRequest) error {
	domain, _, found := strings.Cut(deviceID, ".")
	if !found || domain == "" {
		return fmt.Errorf("%w: device id %q has no domain", apperrors.ErrValidation, deviceID)
	}

	service, err := serviceFor(domain, req.Action)
	if err != nil {
		return err
	}

	slog.Info("Dispatching device command", "device_id", deviceID, "service", service)
	if err := s.commander.CallService(ctx, domain, service, deviceID, req.Data); err != nil {
		if isCanceled(err) || ctx.Err() != nil {
			return fmt.Errorf("%w: command aborted: %v", apperrors.ErrCanceled, err)
		}
		return fmt.Errorf("%w: command failed: %v", apperrors.ErrUpstream, err)
	}
	return nil
}

func serviceFor(domain, action string) (string, error) {
	switch action {
	case "on":
		if domain == "cover" {
			return "open_cover", nil
		}
		return "turn_on", nil
	case "off":
		if domain == "cover" {
			return "close_cover", nil
		}
		return "turn_off", nil
	case "toggle":
		return "toggle", nil
	case "":
		return "", fmt.Errorf("%w: action is required", apperrors.ErrValidation)
	default:
		// Raw service names pass through for domain-specific calls.
		return action, nil
	}
}
