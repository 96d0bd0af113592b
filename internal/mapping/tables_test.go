package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"

	_ "github.com/stockbridge/stockbridge/internal/testing/guard"
)

func TestNewSetTrimsAndSkipsEmpty(t *testing.T) {
	set := NewSet([]string{" Surulere Store ", "", "Lekki Store"})

	assert.True(t, set.Has("Surulere Store"))
	assert.True(t, set.Has("Lekki Store"))
	assert.False(t, set.Has(""))
	assert.False(t, set.Has("Ikeja Store"))
}

func TestTablesLookups(t *testing.T) {
	tables := New(
		[]string{"Surulere Store"},
		[]string{"Su-Sh/Stock"},
		map[string]string{" Surulere Store ": " wh-su "},
		map[string]int64{"wh-su": 32},
	)

	id, ok := tables.WarehouseFor("Surulere Store")
	assert.True(t, ok)
	assert.Equal(t, "wh-su", id)

	_, ok = tables.WarehouseFor("Ikeja Store")
	assert.False(t, ok)

	loc, ok := tables.ERPLocationFor("wh-su")
	assert.True(t, ok)
	assert.Equal(t, int64(32), loc)

	_, ok = tables.ERPLocationFor("wh-unknown")
	assert.False(t, ok)
}

func TestWarehouseForEmptyMapping(t *testing.T) {
	tables := New(nil, nil, map[string]string{"Surulere Store": ""}, nil)

	_, ok := tables.WarehouseFor("Surulere Store")
	assert.False(t, ok)
}
