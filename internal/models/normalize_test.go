package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruthyFlag(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  bool
	}{
		{"bool true", true, true},
		{"string true", "true", true},
		{"number one", float64(1), true},
		{"string one", "1", true},
		{"bool false", false, false},
		{"string false", "false", false},
		{"number zero", float64(0), false},
		{"string zero", "0", false},
		{"nil", nil, false},
		{"empty string", "", false},
		{"arbitrary string", "yes", false},
		{"number two", float64(2), false},
		{"int one", 1, true},
		{"json number one", json.Number("1"), true},
		{"json number zero", json.Number("0"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruthyFlag(tt.value))
		})
	}
}

func TestFlexBool_UnmarshalHeterogeneous(t *testing.T) {
	type payload struct {
		Flag FlexBool `json:"isInitialSetupComplete"`
	}

	for raw, want := range map[string]bool{
		`{"isInitialSetupComplete": true}`:    true,
		`{"isInitialSetupComplete": "true"}`:  true,
		`{"isInitialSetupComplete": 1}`:       true,
		`{"isInitialSetupComplete": "1"}`:     true,
		`{"isInitialSetupComplete": false}`:   false,
		`{"isInitialSetupComplete": "false"}`: false,
		`{"isInitialSetupComplete": 0}`:       false,
		`{"isInitialSetupComplete": null}`:    false,
		`{}`:                                  false,
	} {
		var p payload
		require.NoError(t, json.Unmarshal([]byte(raw), &p))
		assert.Equal(t, want, p.Flag.Bool(), "payload: %s", raw)
	}
}

func TestFlexBool_MarshalsAsPlainBool(t *testing.T) {
	out, err := json.Marshal(struct {
		Flag FlexBool `json:"flag"`
	}{Flag: FlexBool(true)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"flag": true}`, string(out))
}

func TestFlexID(t *testing.T) {
	type payload struct {
		ID FlexID `json:"id"`
	}

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"id": 42}`), &p))
	assert.Equal(t, "42", p.ID.String())
	assert.Equal(t, 42, p.ID.Int())
	assert.True(t, p.ID.Valid())

	require.NoError(t, json.Unmarshal([]byte(`{"id": "17"}`), &p))
	assert.Equal(t, 17, p.ID.Int())

	require.NoError(t, json.Unmarshal([]byte(`{"id": null}`), &p))
	assert.False(t, p.ID.Valid())

	require.NoError(t, json.Unmarshal([]byte(`{"id": "abc"}`), &p))
	assert.Equal(t, 0, p.ID.Int())
	assert.False(t, p.ID.Valid())

	require.NoError(t, json.Unmarshal([]byte(`{"id": "-3"}`), &p))
	assert.False(t, p.ID.Valid())
}

func TestStaffRecordImage(t *testing.T) {
	s := StaffRecord{AvatarURL: "https://cdn.example.com/a.png"}
	assert.Equal(t, "https://cdn.example.com/a.png", s.Image())

	s.Avatar = "https://cdn.example.com/b.png"
	assert.Equal(t, "https://cdn.example.com/b.png", s.Image())
}
