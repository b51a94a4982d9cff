package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mlee0412/frok-server/internal/interfaces"
	"github.com/mlee0412/frok-server/internal/service"
)

// DeviceHandler handles HTTP requests for device state and commands.
type DeviceHandler struct {
	devices interfaces.DeviceService
}

func NewDeviceHandler(devices interfaces.DeviceService) *DeviceHandler {
	return &DeviceHandler{devices: devices}
}

// HandleListDevices godoc
// @Summary      List devices
// @Description  Returns the current full device snapshot.
// @Tags         Devices
// @Produce      json
// @Success      200  {object}  DevicesResponse
// @Router       /devices [get]
func (h *DeviceHandler) HandleListDevices(w http.ResponseWriter, r *http.Request) {
	snap := h.devices.Devices()
	respondWithJSON(w, http.StatusOK, DevicesResponse{Ok: true, TS: snap.TS, Items: snap.Items})
}

// HandleCommand godoc
// @Summary      Command a device
// @Description  Executes an action (on, off, toggle, or a raw Home Assistant service name) against one device.
// @Tags         Devices
// @Accept       json
// @Produce      json
// @Param        deviceID  path  string                  true  "Device (entity) ID"
// @Param        command   body  service.CommandRequest  true  "Action to execute"
// @Success      200  {object}  StatusResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /devices/{deviceID}/command [post]
func (h *DeviceHandler) HandleCommand(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceID")

	var req service.CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Ok: false, Error: "Invalid request payload"})
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}
	if err := h.devices.Command(r.Context(), deviceID, &req); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Ok: true})
}

// HandleDevicesStream godoc
// @Summary      Device snapshot stream
// @Description  Pushes the full device list as a named `devices` event on every poll tick. Each payload replaces the prior list wholesale.
// @Tags         Devices
// @Produce      text/event-stream
// @Success      200  {string}  string  "SSE stream of device snapshots"
// @Router       /devices/stream [get]
func (h *DeviceHandler) HandleDevicesStream(w http.ResponseWriter, r *http.Request) {
	setStreamHeaders(w)

	snapshots, cancel := h.devices.SubscribeDevices()
	defer cancel()

	// New subscribers get the current state immediately rather than
	// waiting out a poll interval.
	if err := writeNamedStreamEvent(w, "devices", h.devices.Devices()); err != nil {
		slog.Warn("Failed to write initial device snapshot", "error", err)
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			if err := writeNamedStreamEvent(w, "devices", snap); err != nil {
				slog.Info("Device stream consumer went away", "error", err)
				return
			}
		}
	}
}

// HandleSystemStream godoc
// @Summary      System health stream
// @Description  Pushes probe results as a named `system` event: HA and database reachability with latency.
// @Tags         System
// @Produce      text/event-stream
// @Success      200  {string}  string  "SSE stream of system health payloads"
// @Router       /system/stream [get]
func (h *DeviceHandler) HandleSystemStream(w http.ResponseWriter, r *http.Request) {
	setStreamHeaders(w)

	health, cancel := h.devices.SubscribeSystem()
	defer cancel()

	if last := h.devices.SystemHealth(); last != nil {
		if err := writeNamedStreamEvent(w, "system", last); err != nil {
			slog.Warn("Failed to write initial system health", "error", err)
			return
		}
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case payload, ok := <-health:
			if !ok {
				return
			}
			if err := writeNamedStreamEvent(w, "system", payload); err != nil {
				slog.Info("System stream consumer went away", "error", err)
				return
			}
		}
	}
}
