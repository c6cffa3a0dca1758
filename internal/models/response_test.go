package models

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResponse(t *testing.T) {
	before := time.Now().UnixMilli()
	response := NewResponse(http.StatusBadRequest, map[string]string{"key": "value"}, "bad request")
	after := time.Now().UnixMilli()

	assert.Equal(t, http.StatusBadRequest, response.Code)
	assert.Equal(t, "bad request", response.Text)
	assert.Equal(t, 2, response.Version)
	assert.GreaterOrEqual(t, response.CurrentTime, before)
	assert.LessOrEqual(t, response.CurrentTime, after)
}

func TestNewEntryResponse(t *testing.T) {
	entry := map[string]string{"id": "A"}
	references := NewEmptyReferences()

	response := NewEntryResponse(entry, references)
	assert.Equal(t, http.StatusOK, response.Code)
	assert.Equal(t, "OK", response.Text)

	data, ok := response.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, entry, data["entry"])
	assert.Equal(t, references, data["references"])
}

func TestNewListResponse(t *testing.T) {
	response := NewListResponse([]string{"A", "B"}, NewEmptyReferences())

	data, ok := response.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B"}, data["list"])
	assert.Equal(t, false, data["limitExceeded"])
}

func TestEmptyReferencesMarshalAsArrays(t *testing.T) {
	b, err := json.Marshal(NewEmptyReferences())
	require.NoError(t, err)
	assert.JSONEq(t, `{"lines":[],"stops":[]}`, string(b))
}

func TestNewCurrentTimeData(t *testing.T) {
	at := time.Date(2025, 5, 3, 12, 0, 0, 0, time.UTC)
	data := NewCurrentTimeData(at)

	assert.Equal(t, "2025-05-03T12:00:00Z", data.Entry.ReadableTime)
	assert.Equal(t, int64(1746273600000), data.Entry.Time)
	assert.Equal(t, NewEmptyReferences(), data.References)
}
