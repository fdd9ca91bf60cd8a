package frame

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDTO(t *testing.T) {
	m, err := NewMutableFrame(nil)
	require.NoError(t, err)
	m.Name = "requests"
	m.RefID = "A"
	m.Meta = &Meta{Custom: map[string]any{"source": "test"}}
	_, err = m.AddField(FieldSpec{Name: "code", Labels: map[string]string{"svc": "api"}, Values: []any{200.0, 500.0}})
	require.NoError(t, err)

	got := m.ToDTO()
	want := DTO{
		Name:  "requests",
		RefID: "A",
		Meta:  &Meta{Custom: map[string]any{"source": "test"}},
		Fields: []FieldDTO{{
			Name:   "code",
			Type:   FieldTypeNumber,
			Config: map[string]any{},
			Labels: map[string]string{"svc": "api"},
			Values: []any{200.0, 500.0},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToDTO() mismatch (-want +got):\n%s", diff)
	}

	// snapshot does not alias live storage
	got.Fields[0].Values[0] = 0.0
	f, _ := m.Field("code")
	v, _ := f.Values.Get(0)
	assert.Equal(t, 200.0, v)
}

func TestToDTO_Nil(t *testing.T) {
	d := ToDTO(nil)
	assert.NotNil(t, d.Fields)
	assert.Equal(t, 0, d.Len())
}

func TestDTO_JSONRoundTrip(t *testing.T) {
	m, err := NewMutableFrame(nil)
	require.NoError(t, err)
	require.NoError(t, m.AppendRow([]any{1, "a", true}))
	require.NoError(t, m.AppendRow([]any{2, nil, false}))

	data, err := m.MarshalJSON()
	require.NoError(t, err)

	dto, err := DecodeDTO(data)
	require.NoError(t, err)
	assert.Equal(t, 2, dto.Len())

	clone, err := NewMutableFrame(dto.Frame())
	require.NoError(t, err)

	want, err := m.ToSlice()
	require.NoError(t, err)
	got, err := clone.ToSlice()
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeDTO_Invalid(t *testing.T) {
	_, err := DecodeDTO([]byte("{"))
	assert.Error(t, err)
}

func TestDTO_FrameDefaultsType(t *testing.T) {
	d := DTO{Fields: []FieldDTO{{Name: "x", Values: []any{"a"}}}}
	f := d.Frame()
	require.Len(t, f.Fields, 1)
	assert.Equal(t, FieldTypeOther, f.Fields[0].Type)
	assert.Equal(t, 1, f.Len())
}
