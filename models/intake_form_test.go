package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntakeFormPreservesFieldOrder(t *testing.T) {
	payload := `{"kassi_nimi":"Miisu","leidmis_kp":"2024-12-01","leidmiskoht":"Tartu","lisainfo":"arg","pildid":["a.png"]}`

	var form IntakeForm
	require.NoError(t, json.Unmarshal([]byte(payload), &form))

	keys := make([]string, 0, len(form.Fields))
	for _, f := range form.Fields {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{"kassi_nimi", "leidmis_kp", "leidmiskoht", "lisainfo", "pildid"}, keys)
}

func TestIntakeFormSheetValues(t *testing.T) {
	payload := `{"kassi_nimi":"Miisu","leidmis_kp":"2024-12-01","pildid":["a.png"],"leidmiskoht":"Tartu"}`

	var form IntakeForm
	require.NoError(t, json.Unmarshal([]byte(payload), &form))

	values := form.SheetValues(42)
	require.Len(t, values, 4)
	assert.Equal(t, uint(42), values[0])
	assert.Equal(t, "Miisu", values[1])
	assert.Equal(t, "2024-12-01", values[2])
	// pildid is stripped, remaining fields keep their order
	assert.Equal(t, "Tartu", values[3])
}

func TestIntakeFormRescueDate(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    *time.Time
	}{
		{
			name:    "plain date",
			payload: `{"leidmis_kp":"2024-12-01"}`,
			want:    datePtr(2024, 12, 1),
		},
		{
			name:    "missing",
			payload: `{"kassi_nimi":"Miisu"}`,
			want:    nil,
		},
		{
			name:    "empty",
			payload: `{"leidmis_kp":""}`,
			want:    nil,
		},
		{
			name:    "garbage",
			payload: `{"leidmis_kp":"homme"}`,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var form IntakeForm
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &form))
			got := form.RescueDate()
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got))
		})
	}
}

func TestIntakeFormRejectsNonObject(t *testing.T) {
	var form IntakeForm
	assert.Error(t, json.Unmarshal([]byte(`["not","an","object"]`), &form))
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
