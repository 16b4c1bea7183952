package groupconfig

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studio/core"
)

func TestGroup_IsEmpty(t *testing.T) {
	tests := []struct {
		name string
		grp  Group
		want bool
	}{
		{name: "default", grp: Group{}, want: true},
		{name: "named", grp: NewGroup("Group A"), want: false},
		{name: "whitespace is not empty", grp: NewGroup("  "), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.grp.IsEmpty())
		})
	}
}

func TestGroup_Validate(t *testing.T) {
	validate, _ := core.NewValidator()

	assert.NoError(t, NewGroup("Group A").Validate(validate))

	for _, name := range []string{"", "   ", "\t\n"} {
		err := NewGroup(name).Validate(validate)
		vErr, ok := core.AsValidationError(err)
		require.Truef(t, ok, "Validate(%q) error = %v; want *core.ValidationError", name, err)
		assert.Equal(t, "Group name is required", vErr.Error())
		assert.Equal(t, []string{"name"}, vErr.Attributes())
	}
}

func TestGroup_JSONExcludesOrder(t *testing.T) {
	grp := Group{ID: intPtr(3), Name: "Group A", Version: intPtr(1), Order: intPtr(2)}
	data, err := json.Marshal(grp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": 3, "name": "Group A", "version": 1}`, string(data))
}

func TestGroup_ToJSON(t *testing.T) {
	grp := Group{ID: intPtr(3), Name: "Group A", Version: intPtr(1), Order: intPtr(2)}
	w := grp.ToJSON()
	assert.Equal(t, GroupWire{ID: intPtr(3), Name: "Group A", Version: intPtr(1)}, w)

	*w.ID = 4
	assert.Equal(t, 3, *grp.ID)

	data, err := json.Marshal(Group{Name: "Group B"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": null, "name": "Group B", "version": null}`, string(data))
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`{"id": 1, "tab_title": "A", "tab_description": "d", "groups": [{"name": "x"}]}`))
	require.NoError(t, err)

	require.NotNil(t, cfg.ID)
	assert.Equal(t, 1, *cfg.ID)
	assert.Equal(t, "A", cfg.Name)
	assert.Equal(t, "d", cfg.Description)
	require.Len(t, cfg.Groups, 1)
	require.NotNil(t, cfg.Groups[0].Order)
	assert.Equal(t, 1, *cfg.Groups[0].Order)
	assert.False(t, cfg.IsDirty())

	cfg.Name = "B"
	assert.True(t, cfg.IsDirty())
}

func TestParse_internalKeysWin(t *testing.T) {
	cfg, err := Parse([]byte(`{"name": "internal", "tab_title": "wire", "description": "", "tab_description": "wire d"}`))
	require.NoError(t, err)
	assert.Equal(t, "internal", cfg.Name)
	assert.Equal(t, "", cfg.Description)
	assert.NotNil(t, cfg.Groups)
	assert.Nil(t, cfg.ID)
}

func TestParse_keepsExistingOrder(t *testing.T) {
	cfg, err := Parse([]byte(`{"tab_title": "A", "groups": [{"name": "x", "order": 5}, {"name": "y"}, {"name": "z"}]}`))
	require.NoError(t, err)

	orders := make([]int, 0, len(cfg.Groups))
	for _, g := range cfg.Groups {
		orders = append(orders, *g.Order)
	}
	assert.Equal(t, []int{5, 2, 3}, orders)
}

func TestParse_invalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{"tab_title": `))
	assert.Error(t, err)
}

func TestConfiguration_ToJSON(t *testing.T) {
	cfg := NewConfiguration("Experiment", "desc", Group{ID: intPtr(0), Name: "Group A", Version: intPtr(1)})
	cfg.ID = intPtr(7)
	cfg.ShowGroups = true

	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 7,
		"tab_title": "Experiment",
		"tab_description": "desc",
		"groups": [{"id": 0, "name": "Group A", "version": 1}]
	}`, string(data))

	// by value too
	data, err = json.Marshal([]Configuration{*cfg})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tab_title":"Experiment"`)
}

func TestConfiguration_roundTrip(t *testing.T) {
	orig := NewConfiguration("Experiment", "desc", NewGroup("Group A"), NewGroup("Group B"))
	orig.ID = intPtr(2)

	parsed := FromWire(orig.ToJSON())
	assert.Equal(t, orig.ID, parsed.ID)
	assert.Equal(t, orig.Name, parsed.Name)
	assert.Equal(t, orig.Description, parsed.Description)
	assert.Equal(t, orig.Groups, parsed.Groups)

	var decoded Configuration
	data, err := json.Marshal(orig)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, orig.Groups, decoded.Groups)
	assert.False(t, decoded.IsDirty())
}

func TestConfiguration_IsDirty(t *testing.T) {
	tests := []struct {
		name   string
		change func(cfg *Configuration)
		want   bool
	}{
		{name: "untouched", change: func(*Configuration) {}, want: false},
		{name: "show groups is display only", change: func(cfg *Configuration) { cfg.ShowGroups = true }, want: false},
		{name: "order is client-local", change: func(cfg *Configuration) { cfg.Groups[0].Order = intPtr(9) }, want: false},
		{name: "name", change: func(cfg *Configuration) { cfg.Name = "Other" }, want: true},
		{name: "description", change: func(cfg *Configuration) { cfg.Description = "other" }, want: true},
		{name: "group name", change: func(cfg *Configuration) { cfg.Groups[1].Name = "Group C" }, want: true},
		{name: "group added", change: func(cfg *Configuration) { cfg.AddGroup("Group C") }, want: true},
		{name: "group removed", change: func(cfg *Configuration) { cfg.Groups = cfg.Groups[:1] }, want: true},
		{name: "changed back", change: func(cfg *Configuration) { cfg.Name = "Other"; cfg.Name = "Experiment" }, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfiguration("Experiment", "desc", NewGroup("Group A"), NewGroup("Group B"))
			tt.change(cfg)
			assert.Equal(t, tt.want, cfg.IsDirty())
		})
	}
}

func TestConfiguration_Reset(t *testing.T) {
	cfg, err := Parse([]byte(`{"id": 1, "tab_title": "A", "tab_description": "d", "groups": [{"id": 0, "name": "x", "version": 1}]}`))
	require.NoError(t, err)

	cfg.Name = "B"
	cfg.Description = ""
	cfg.AddGroup("y")
	cfg.Groups[0].Name = "changed"
	cfg.ShowGroups = true
	require.True(t, cfg.IsDirty())

	require.NoError(t, cfg.Reset())
	assert.False(t, cfg.IsDirty())
	assert.Equal(t, "A", cfg.Name)
	assert.Equal(t, "d", cfg.Description)
	require.Len(t, cfg.Groups, 1)
	assert.Equal(t, "x", cfg.Groups[0].Name)
	assert.Equal(t, 1, *cfg.Groups[0].Order)
	assert.True(t, cfg.ShowGroups)

	assert.Error(t, (&Configuration{}).Reset())
}

func TestConfiguration_SetOriginalAttributes(t *testing.T) {
	cfg := NewConfiguration("A", "", NewGroup("x"))
	cfg.Name = "B"
	require.True(t, cfg.IsDirty())

	cfg.SetOriginalAttributes()
	assert.False(t, cfg.IsDirty())
	require.NoError(t, cfg.Reset())
	assert.Equal(t, "B", cfg.Name)
}

func TestConfiguration_Changes(t *testing.T) {
	cfg := NewConfiguration("A", "", NewGroup("x"))

	diff, err := cfg.Changes()
	require.NoError(t, err)
	assert.Empty(t, diff)

	cfg.Name = "B"
	diff, err = cfg.Changes()
	require.NoError(t, err)
	assert.Contains(t, diff, "--- original")
	assert.Contains(t, diff, "+++ current")
	assert.Contains(t, diff, `-  "tab_title": "A",`)
	assert.Contains(t, diff, `+  "tab_title": "B",`)
}

func TestConfiguration_IsEmpty(t *testing.T) {
	assert.True(t, NewConfiguration("", "").IsEmpty())
	assert.False(t, NewConfiguration("A", "").IsEmpty())
	assert.False(t, NewConfiguration("", "", NewGroup("")).IsEmpty())
}

func TestConfiguration_Clone(t *testing.T) {
	cfg := NewConfiguration("A", "", Group{ID: intPtr(1), Name: "x"})
	clone := cfg.Clone()
	clone.Groups[0].Name = "y"
	*clone.Groups[0].ID = 5

	assert.Equal(t, "x", cfg.Groups[0].Name)
	assert.Equal(t, 1, *cfg.Groups[0].ID)
	assert.False(t, cfg.IsDirty())
	assert.True(t, clone.IsDirty())
}

func TestConfiguration_Validate(t *testing.T) {
	validate, _ := core.NewValidator()

	tests := []struct {
		name      string
		cfg       *Configuration
		wantMsg   string
		wantAttrs []string
	}{
		{name: "valid", cfg: NewConfiguration("A", "", NewGroup("x"))},
		{name: "no name", cfg: NewConfiguration("", "", NewGroup("x")), wantMsg: "Group Configuration name is required", wantAttrs: []string{"name"}},
		{name: "no name and no groups", cfg: NewConfiguration("", ""), wantMsg: "Group Configuration name is required", wantAttrs: []string{"name"}},
		{name: "no groups", cfg: NewConfiguration("A", ""), wantMsg: "There must be at least one group.", wantAttrs: []string{"groups"}},
		{name: "nil groups", cfg: &Configuration{Name: "A"}, wantMsg: "There must be at least one group.", wantAttrs: []string{"groups"}},
		{
			name: "one empty group", cfg: NewConfiguration("A", "", NewGroup("")),
			wantMsg: "All groups must have a name.", wantAttrs: []string{"groups[0]"},
		},
		{
			name: "blank groups are collected", cfg: NewConfiguration("A", "", NewGroup("x"), NewGroup(" "), NewGroup("y"), NewGroup("")),
			wantMsg: "All groups must have a name.", wantAttrs: []string{"groups[1]", "groups[3]"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate(validate)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			vErr, ok := core.AsValidationError(err)
			require.Truef(t, ok, "Validate() error = %v; want *core.ValidationError", err)
			assert.Equal(t, tt.wantMsg, vErr.Error())
			assert.Equal(t, tt.wantAttrs, vErr.Attributes())
		})
	}
}
