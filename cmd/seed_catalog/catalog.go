package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Inventario-mrp/internal/domain/entity"
)

var (
	productHeader = []string{"sku", "name", "kind", "reference_price", "unit_measure"}
	bomHeader     = []string{"finished_sku", "component_sku", "quantity_per_unit"}
)

type catalogProduct struct {
	ID             string
	SKU            string
	Name           string
	Kind           string
	ReferencePrice *decimal.Decimal
	UnitMeasure    string
}

type catalogBOMLine struct {
	FinishedSKU     string
	ComponentSKU    string
	QuantityPerUnit decimal.Decimal
	Position        int
}

// toUTF8 las exportaciones del ERP anterior vienen en ISO-8859-1; si el contenido no es UTF-8 válido se convierte.
func toUTF8(raw []byte) ([]byte, error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	if utf8.Valid(raw) {
		return raw, nil
	}
	out, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
	if err != nil {
		return nil, fmt.Errorf("convertir ISO-8859-1: %w", err)
	}
	return out, nil
}

// readRecords lee el CSV detectando el separador (';' de Excel en español o ',').
func readRecords(raw []byte, expected []string) ([][]string, error) {
	data, err := toUTF8(raw)
	if err != nil {
		return nil, err
	}
	firstLine, _, _ := bytes.Cut(data, []byte("\n"))
	r := csv.NewReader(bytes.NewReader(data))
	if bytes.Count(firstLine, []byte(";")) > bytes.Count(firstLine, []byte(",")) {
		r.Comma = ';'
	}
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("el CSV debe tener encabezado y al menos una fila")
	}
	if !sameHeader(records[0], expected) {
		return nil, fmt.Errorf("encabezado inválido: esperado %v, recibido %v", expected, records[0])
	}
	return records[1:], nil
}

func sameHeader(got, expected []string) bool {
	if len(got) != len(expected) {
		return false
	}
	for i := range got {
		if !strings.EqualFold(strings.TrimSpace(got[i]), expected[i]) {
			return false
		}
	}
	return true
}

// parseDecimal acepta coma decimal ("12,5").
func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	return decimal.NewFromString(s)
}

func normalizeKind(s string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case entity.ProductKindRawMaterial, "MP", "MATERIA PRIMA":
		return entity.ProductKindRawMaterial, nil
	case entity.ProductKindFinishedProduct, "PT", "PRODUCTO TERMINADO":
		return entity.ProductKindFinishedProduct, nil
	}
	return "", fmt.Errorf("tipo de producto desconocido %q", s)
}

// productID id estable por SKU para que el script se pueda aplicar varias veces.
func productID(sku string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("product:"+sku)).String()
}

func parseProducts(raw []byte) ([]catalogProduct, error) {
	records, err := readRecords(raw, productHeader)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(records))
	out := make([]catalogProduct, 0, len(records))
	for i, rec := range records {
		row := i + 2
		sku := strings.TrimSpace(rec[0])
		name := strings.TrimSpace(rec[1])
		if sku == "" || name == "" {
			return nil, fmt.Errorf("fila %d: sku y nombre son obligatorios", row)
		}
		if seen[sku] {
			return nil, fmt.Errorf("fila %d: sku %s repetido", row, sku)
		}
		seen[sku] = true
		kind, err := normalizeKind(rec[2])
		if err != nil {
			return nil, fmt.Errorf("fila %d: %w", row, err)
		}
		p := catalogProduct{ID: productID(sku), SKU: sku, Name: name, Kind: kind, UnitMeasure: strings.TrimSpace(rec[4])}
		if strings.TrimSpace(rec[3]) != "" {
			price, err := parseDecimal(rec[3])
			if err != nil || price.IsNegative() {
				return nil, fmt.Errorf("fila %d: precio de referencia inválido %q", row, rec[3])
			}
			p.ReferencePrice = &price
		}
		if p.UnitMeasure == "" {
			p.UnitMeasure = "UND"
		}
		out = append(out, p)
	}
	return out, nil
}

func parseBOM(raw []byte) ([]catalogBOMLine, error) {
	records, err := readRecords(raw, bomHeader)
	if err != nil {
		return nil, err
	}
	positions := make(map[string]int)
	seen := make(map[[2]string]bool)
	out := make([]catalogBOMLine, 0, len(records))
	for i, rec := range records {
		row := i + 2
		finished := strings.TrimSpace(rec[0])
		component := strings.TrimSpace(rec[1])
		if finished == "" || component == "" {
			return nil, fmt.Errorf("fila %d: sku de producto y componente son obligatorios", row)
		}
		if finished == component {
			return nil, fmt.Errorf("fila %d: %s no puede ser componente de sí mismo", row, finished)
		}
		key := [2]string{finished, component}
		if seen[key] {
			return nil, fmt.Errorf("fila %d: componente %s repetido en %s", row, component, finished)
		}
		seen[key] = true
		qty, err := parseDecimal(rec[2])
		if err != nil || !qty.IsPositive() {
			return nil, fmt.Errorf("fila %d: cantidad por unidad inválida %q", row, rec[2])
		}
		positions[finished]++
		out = append(out, catalogBOMLine{
			FinishedSKU:     finished,
			ComponentSKU:    component,
			QuantityPerUnit: qty,
			Position:        positions[finished],
		})
	}
	return out, nil
}

// checkBOMKinds valida contra el catálogo del mismo lote de carga; los SKU ausentes se resuelven en BD.
func checkBOMKinds(products []catalogProduct, lines []catalogBOMLine) error {
	kinds := make(map[string]string, len(products))
	for _, p := range products {
		kinds[p.SKU] = p.Kind
	}
	for _, l := range lines {
		if k, ok := kinds[l.FinishedSKU]; ok && k != entity.ProductKindFinishedProduct {
			return fmt.Errorf("%s tiene BOM pero no es producto terminado", l.FinishedSKU)
		}
		if k, ok := kinds[l.ComponentSKU]; ok && k != entity.ProductKindRawMaterial {
			return fmt.Errorf("componente %s no es materia prima", l.ComponentSKU)
		}
	}
	return nil
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// writeSQL genera un script idempotente: upsert por SKU (el tipo no cambia) y reemplazo de BOM por producto.
func writeSQL(w io.Writer, products []catalogProduct, lines []catalogBOMLine) error {
	var b strings.Builder
	b.WriteString("-- Catálogo de productos y listas de materiales\n")
	b.WriteString("BEGIN;\n\n")

	if len(products) > 0 {
		b.WriteString("INSERT INTO products (id, sku, name, kind, reference_price, unit_measure) VALUES\n")
		for i, p := range products {
			price := "NULL"
			if p.ReferencePrice != nil {
				price = p.ReferencePrice.String()
			}
			fmt.Fprintf(&b, "  ('%s', '%s', '%s', '%s', %s, '%s')", p.ID, escapeSQL(p.SKU), escapeSQL(p.Name), p.Kind, price, escapeSQL(p.UnitMeasure))
			if i < len(products)-1 {
				b.WriteString(",\n")
			} else {
				b.WriteString("\n")
			}
		}
		b.WriteString("ON CONFLICT (sku) DO UPDATE SET name = EXCLUDED.name, reference_price = EXCLUDED.reference_price,\n")
		b.WriteString("  unit_measure = EXCLUDED.unit_measure, updated_at = now();\n\n")
	}

	byFinished := make(map[string][]catalogBOMLine)
	for _, l := range lines {
		byFinished[l.FinishedSKU] = append(byFinished[l.FinishedSKU], l)
	}
	finished := make([]string, 0, len(byFinished))
	for sku := range byFinished {
		finished = append(finished, sku)
	}
	sort.Strings(finished)

	for _, sku := range finished {
		fmt.Fprintf(&b, "-- BOM %s\n", sku)
		fmt.Fprintf(&b, "DELETE FROM bom_lines WHERE finished_product_id = (SELECT id FROM products WHERE sku = '%s');\n", escapeSQL(sku))
		for _, l := range byFinished[sku] {
			fmt.Fprintf(&b, "INSERT INTO bom_lines (finished_product_id, component_product_id, quantity_per_unit, position)\n")
			fmt.Fprintf(&b, "SELECT f.id, c.id, %s, %d FROM products f, products c WHERE f.sku = '%s' AND c.sku = '%s';\n",
				l.QuantityPerUnit.String(), l.Position, escapeSQL(l.FinishedSKU), escapeSQL(l.ComponentSKU))
		}
		b.WriteString("\n")
	}

	b.WriteString("COMMIT;\n")
	_, err := io.WriteString(w, b.String())
	return err
}
