package xblock

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadata_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantName  *string
		wantLock  *bool
		wantUnset []string
	}{
		{name: "empty", data: `{}`},
		{name: "values", data: `{"display_name": "Unit", "visible_to_staff_only": true}`, wantName: strPtr("Unit"), wantLock: boolPtr(true)},
		{name: "false is a value", data: `{"visible_to_staff_only": false}`, wantLock: boolPtr(false)},
		{name: "nulls", data: `{"visible_to_staff_only": null, "display_name": null}`, wantUnset: []string{AttrDisplayName, AttrVisibleToStaffOnly}},
		{name: "unknown keys are ignored", data: `{"due": "2021-01-01", "display_name": null}`, wantUnset: []string{AttrDisplayName}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var md Metadata
			require.NoError(t, json.Unmarshal([]byte(tt.data), &md))
			assert.Equal(t, tt.wantName, md.DisplayName)
			assert.Equal(t, tt.wantLock, md.VisibleToStaffOnly)
			assert.Equal(t, tt.wantUnset, md.Unset)
		})
	}

	var md Metadata
	assert.Error(t, json.Unmarshal([]byte(`{"visible_to_staff_only": "yes"}`), &md))
}

func TestMetadata_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(UpdateRequest{
		Publish:  PublishMakePublic,
		Metadata: &Metadata{DisplayName: strPtr("Unit"), Unset: []string{AttrVisibleToStaffOnly}},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"publish": "make_public", "metadata": {"display_name": "Unit", "visible_to_staff_only": null}}`, string(data))

	data, err = json.Marshal(Metadata{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func boolPtr(b bool) *bool { return &b }
