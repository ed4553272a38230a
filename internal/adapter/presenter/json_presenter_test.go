package presenter_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoshitsuguKoike/billrecon/internal/adapter/presenter"
	"github.com/YoshitsuguKoike/billrecon/internal/application/dto"
)

func TestJSONPresenter_PresentSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	p := presenter.NewJSONPresenter(buf)

	report := &dto.GenerateReport{RunID: "run-1", Period: "2026-10", Created: 1, Message: "created 1 expense record(s) for 2026-10"}
	require.NoError(t, p.PresentSuccess(report.Message, report))

	var envelope struct {
		Success bool               `json:"success"`
		Message string             `json:"message"`
		Data    dto.GenerateReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, report.Message, envelope.Message)
	assert.Equal(t, "run-1", envelope.Data.RunID)
	assert.Equal(t, 1, envelope.Data.Created)
}

func TestJSONPresenter_PresentError(t *testing.T) {
	buf := &bytes.Buffer{}
	p := presenter.NewJSONPresenter(buf)

	require.NoError(t, p.PresentError(errors.New("period locked")))

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, false, result["success"])
	assert.Equal(t, "period locked", result["error"])
	assert.NotContains(t, result, "data")
}

func TestJSONPresenter_PresentPartial(t *testing.T) {
	buf := &bytes.Buffer{}
	p := presenter.NewJSONPresenter(buf)

	report := &dto.AuditReport{RunID: "run-1"}
	require.NoError(t, p.PresentPartial(errors.New("stores unreachable"), report))

	dec := json.NewDecoder(buf)
	var result map[string]interface{}
	require.NoError(t, dec.Decode(&result))
	assert.False(t, dec.More(), "a single envelope is written")
	assert.Equal(t, false, result["success"])
	assert.Equal(t, "stores unreachable", result["error"])
	data, ok := result["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "run-1", data["runId"])
}
