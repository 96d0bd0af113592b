package movement

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockbridge/stockbridge/internal/mapping"
)

func decodeEvent(t *testing.T, payload string) Event {
	t.Helper()
	var evt Event
	require.NoError(t, json.Unmarshal([]byte(payload), &evt))
	return evt
}

func TestValidMovement(t *testing.T) {
	companies := mapping.NewSet([]string{"Surulere Store", "Lekki Store"})

	valid := decodeEvent(t, `{
		"x_model_action": "stock.move_confirmed",
		"id": 42,
		"company_id": [1, "Surulere Store"],
		"product_id": [10, "Chair"],
		"location_id": [32, "Su-Sh/Stock"],
		"location_dest_id": [5, "Customers"],
		"product_qty": 3
	}`)
	assert.True(t, ValidMovement(valid, companies))

	t.Run("company absent", func(t *testing.T) {
		evt := decodeEvent(t, `{"company_id": false, "product_id": [10, "Chair"], "location_id": [32, "A"], "location_dest_id": [5, "B"]}`)
		assert.False(t, ValidMovement(evt, companies))
	})

	t.Run("company out of scope", func(t *testing.T) {
		evt := valid
		evt.Company = Pair{}
		require.NoError(t, json.Unmarshal([]byte(`[9, "Ikeja Store"]`), &evt.Company))
		assert.False(t, ValidMovement(evt, companies))
	})

	t.Run("product missing name element", func(t *testing.T) {
		evt := valid
		evt.Product = Pair{}
		require.NoError(t, json.Unmarshal([]byte(`[10]`), &evt.Product))
		assert.False(t, ValidMovement(evt, companies))
	})

	t.Run("source absent", func(t *testing.T) {
		evt := valid
		require.NoError(t, json.Unmarshal([]byte(`false`), &evt.Source))
		assert.False(t, ValidMovement(evt, companies))
	})

	t.Run("dest absent", func(t *testing.T) {
		evt := valid
		require.NoError(t, json.Unmarshal([]byte(`null`), &evt.Dest))
		assert.False(t, ValidMovement(evt, companies))
	})
}
