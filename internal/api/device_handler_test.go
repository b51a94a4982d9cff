package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mlee0412/frok-server/internal/api"
	app_errors "github.com/mlee0412/frok-server/internal/errors"
	"github.com/mlee0412/frok-server/internal/interfaces/mocks"
	"github.com/mlee0412/frok-server/internal/model"
	"github.com/mlee0412/frok-server/internal/service"
)

func setupDeviceHandler(t *testing.T) (*api.DeviceHandler, *mocks.MockDeviceService) {
	mockDevices := mocks.NewMockDeviceService(t)
	return api.NewDeviceHandler(mockDevices), mockDevices
}

func TestDeviceHandler_HandleListDevices(t *testing.T) {
	handler, mockDevices := setupDeviceHandler(t)
	snap := model.DeviceSnapshot{TS: 1700000000000, Items: []model.Device{
		{ID: "light.kitchen", Name: "Kitchen", Type: "light", State: "on"},
	}}
	mockDevices.On("Devices").Return(snap).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/devices", nil)
	rr := httptest.NewRecorder()
	handler.HandleListDevices(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp api.DevicesResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Ok)
	assert.Equal(t, snap.TS, resp.TS)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "light.kitchen", resp.Items[0].ID)
}

func TestDeviceHandler_HandleCommand(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockDevices := setupDeviceHandler(t)
		mockDevices.On("Command", mock.Anything, "light.kitchen",
			mock.MatchedBy(func(r *service.CommandRequest) bool { return r.Action == "on" })).
			Return(nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/devices/light.kitchen/command", strings.NewReader(`{"action":"on"}`))
		req = addChiURLParams(req, map[string]string{"deviceID": "light.kitchen"})
		rr := httptest.NewRecorder()
		handler.HandleCommand(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp api.StatusResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.True(t, resp.Ok)
	})

	t.Run("Failure - missing action", func(t *testing.T) {
		handler, _ := setupDeviceHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/api/devices/light.kitchen/command", strings.NewReader(`{}`))
		req = addChiURLParams(req, map[string]string{"deviceID": "light.kitchen"})
		rr := httptest.NewRecorder()
		handler.HandleCommand(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Failure - bridge down maps to 502", func(t *testing.T) {
		handler, mockDevices := setupDeviceHandler(t)
		mockDevices.On("Command", mock.Anything, "light.kitchen", mock.Anything).
			Return(app_errors.ErrUpstream).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/devices/light.kitchen/command", strings.NewReader(`{"action":"on"}`))
		req = addChiURLParams(req, map[string]string{"deviceID": "light.kitchen"})
		rr := httptest.NewRecorder()
		handler.HandleCommand(rr, req)

		assert.Equal(t, http.StatusBadGateway, rr.Code)
	})

	t.Run("Aborted command maps to 499", func(t *testing.T) {
		handler, mockDevices := setupDeviceHandler(t)
		mockDevices.On("Command", mock.Anything, "light.kitchen", mock.Anything).
			Return(app_errors.ErrCanceled).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/devices/light.kitchen/command", strings.NewReader(`{"action":"on"}`))
		req = addChiURLParams(req, map[string]string{"deviceID": "light.kitchen"})
		rr := httptest.NewRecorder()
		handler.HandleCommand(rr, req)

		assert.Equal(t, 499, rr.Code)
	})
}

func TestDeviceHandler_HandleDevicesStream(t *testing.T) {
	handler, mockDevices := setupDeviceHandler(t)

	initial := model.DeviceSnapshot{TS: 1, Items: []model.Device{{ID: "light.kitchen", State: "on"}}}
	update := model.DeviceSnapshot{TS: 2, Items: []model.Device{{ID: "light.kitchen", State: "off"}}}

	snapshots := make(chan model.DeviceSnapshot, 1)
	snapshots <- update
	close(snapshots)

	mockDevices.On("SubscribeDevices").Return((<-chan model.DeviceSnapshot)(snapshots), func() {}).Once()
	mockDevices.On("Devices").Return(initial).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/devices/stream", nil)
	rr := httptest.NewRecorder()
	handler.HandleDevicesStream(rr, req)

	out := rr.Body.String()
	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
	assert.Contains(t, out, "event: devices\n")
	assert.Contains(t, out, `"ts":1`)
	assert.Contains(t, out, `"ts":2`)
	assert.Contains(t, out, `"state":"off"`)
}

func TestDeviceHandler_HandleSystemStream(t *testing.T) {
	handler, mockDevices := setupDeviceHandler(t)

	last := &model.SystemHealth{TS: 1, UptimeS: 60, HAOk: true, DBOk: true}
	next := model.SystemHealth{TS: 2, UptimeS: 65, HAOk: false, DBOk: true}

	health := make(chan model.SystemHealth, 1)
	health <- next
	close(health)

	mockDevices.On("SubscribeSystem").Return((<-chan model.SystemHealth)(health), func() {}).Once()
	mockDevices.On("SystemHealth").Return(last).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/system/stream", nil)
	rr := httptest.NewRecorder()
	handler.HandleSystemStream(rr, req)

	out := rr.Body.String()
	assert.Contains(t, out, "event: system\n")
	assert.Contains(t, out, `"ha_ok":true`)
	assert.Contains(t, out, `"ha_ok":false`)
}
