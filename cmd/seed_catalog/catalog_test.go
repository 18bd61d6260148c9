package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-mrp/internal/domain/entity"
)

func TestParseProducts_Latin1ConPuntoYComa(t *testing.T) {
	// "Azúcar" en ISO-8859-1: ú = 0xFA
	raw := []byte("sku;name;kind;reference_price;unit_measure\nMP-001;Az\xfacar;MP;1,5;KG\nPT-001;Galleta;PT;;\n")

	products, err := parseProducts(raw)
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "Azúcar", products[0].Name)
	assert.Equal(t, entity.ProductKindRawMaterial, products[0].Kind)
	require.NotNil(t, products[0].ReferencePrice)
	assert.Equal(t, "1.5", products[0].ReferencePrice.String())
	assert.Equal(t, "KG", products[0].UnitMeasure)

	assert.Equal(t, entity.ProductKindFinishedProduct, products[1].Kind)
	assert.Nil(t, products[1].ReferencePrice)
	assert.Equal(t, "UND", products[1].UnitMeasure)
}

func TestParseProducts_IDEstablePorSKU(t *testing.T) {
	raw := []byte("sku,name,kind,reference_price,unit_measure\nMP-001,Harina,RAW_MATERIAL,2,KG\n")
	a, err := parseProducts(raw)
	require.NoError(t, err)
	b, err := parseProducts(raw)
	require.NoError(t, err)
	assert.Equal(t, a[0].ID, b[0].ID)
	assert.NotEqual(t, productID("MP-002"), a[0].ID)
}

func TestParseProducts_Errores(t *testing.T) {
	cases := map[string]string{
		"encabezado":      "codigo,nombre\nX,Y\n",
		"sin filas":       "sku,name,kind,reference_price,unit_measure\n",
		"tipo":            "sku,name,kind,reference_price,unit_measure\nX,Y,SERVICIO,,\n",
		"sku repetido":    "sku,name,kind,reference_price,unit_measure\nX,Y,MP,,\nX,Z,MP,,\n",
		"precio negativo": "sku,name,kind,reference_price,unit_measure\nX,Y,MP,-1,\n",
		"nombre vacío":    "sku,name,kind,reference_price,unit_measure\nX,,MP,,\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseProducts([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestParseBOM_PosicionesPorProducto(t *testing.T) {
	raw := []byte("finished_sku,component_sku,quantity_per_unit\nPT-1,MP-1,2\nPT-1,MP-2,0.5\nPT-2,MP-1,1\n")
	lines, err := parseBOM(raw)
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, 1, lines[0].Position)
	assert.Equal(t, 2, lines[1].Position)
	assert.Equal(t, 1, lines[2].Position)
}

func TestParseBOM_Errores(t *testing.T) {
	cases := map[string]string{
		"autorreferencia":   "finished_sku,component_sku,quantity_per_unit\nPT-1,PT-1,1\n",
		"repetido":          "finished_sku,component_sku,quantity_per_unit\nPT-1,MP-1,1\nPT-1,MP-1,2\n",
		"cantidad cero":     "finished_sku,component_sku,quantity_per_unit\nPT-1,MP-1,0\n",
		"cantidad inválida": "finished_sku,component_sku,quantity_per_unit\nPT-1,MP-1,abc\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseBOM([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestCheckBOMKinds(t *testing.T) {
	products := []catalogProduct{
		{SKU: "MP-1", Kind: entity.ProductKindRawMaterial},
		{SKU: "PT-1", Kind: entity.ProductKindFinishedProduct},
	}
	assert.NoError(t, checkBOMKinds(products, []catalogBOMLine{{FinishedSKU: "PT-1", ComponentSKU: "MP-1"}}))
	assert.NoError(t, checkBOMKinds(products, []catalogBOMLine{{FinishedSKU: "PT-1", ComponentSKU: "MP-9"}}))
	assert.Error(t, checkBOMKinds(products, []catalogBOMLine{{FinishedSKU: "MP-1", ComponentSKU: "PT-1"}}))
	assert.Error(t, checkBOMKinds(products, []catalogBOMLine{{FinishedSKU: "PT-1", ComponentSKU: "PT-1"}}))
}

func TestWriteSQL(t *testing.T) {
	products, err := parseProducts([]byte("sku,name,kind,reference_price,unit_measure\nMP-1,Aceite d'oliva,MP,3,LT\nPT-1,Salsa,PT,,\n"))
	require.NoError(t, err)
	lines, err := parseBOM([]byte("finished_sku,component_sku,quantity_per_unit\nPT-1,MP-1,0.25\n"))
	require.NoError(t, err)

	var sb strings.Builder
	require.NoError(t, writeSQL(&sb, products, lines))
	sql := sb.String()

	assert.True(t, strings.HasPrefix(sql, "-- Catálogo"))
	assert.Contains(t, sql, "BEGIN;")
	assert.Contains(t, sql, "'Aceite d''oliva'")
	assert.Contains(t, sql, "ON CONFLICT (sku) DO UPDATE")
	assert.Contains(t, sql, "NULL, 'UND')")
	assert.Contains(t, sql, "DELETE FROM bom_lines WHERE finished_product_id = (SELECT id FROM products WHERE sku = 'PT-1');")
	assert.Contains(t, sql, "SELECT f.id, c.id, 0.25, 1 FROM products f, products c WHERE f.sku = 'PT-1' AND c.sku = 'MP-1';")
	assert.True(t, strings.HasSuffix(sql, "COMMIT;\n"))
}
