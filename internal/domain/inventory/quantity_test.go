package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Inventario-mrp/internal/domain/inventory"
)

func TestValidQuantity(t *testing.T) {
	cases := map[string]bool{
		"1":           true,
		"0.000001":    true,
		"2.500000000": true,
		"0.0000001":   false,
		"1.1234567":   false,
		"0":           false,
		"-1":          false,
	}
	for in, want := range cases {
		assert.Equal(t, want, inventory.ValidQuantity(d(in)), in)
	}
}
