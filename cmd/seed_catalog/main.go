// seed_catalog genera un script SQL para cargar el catálogo de productos y sus listas de materiales
// a partir de exportaciones CSV (UTF-8 o ISO-8859-1, separador ',' o ';').
//
// Uso: go run ./cmd/seed_catalog productos.csv [bom.csv]
//
// productos.csv: sku,name,kind,reference_price,unit_measure (kind: RAW_MATERIAL|FINISHED_PRODUCT|MP|PT)
// bom.csv:       finished_sku,component_sku,quantity_per_unit
//
// Escribe catalog_seed.sql en la raíz del módulo.
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: seed_catalog productos.csv [bom.csv]")
		os.Exit(2)
	}

	raw, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir catálogo: %v\n", err)
		os.Exit(1)
	}
	products, err := parseProducts(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Catálogo: %v\n", err)
		os.Exit(1)
	}

	var lines []catalogBOMLine
	if len(os.Args) > 2 {
		raw, err := os.ReadFile(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Abrir BOM: %v\n", err)
			os.Exit(1)
		}
		if lines, err = parseBOM(raw); err != nil {
			fmt.Fprintf(os.Stderr, "BOM: %v\n", err)
			os.Exit(1)
		}
		if err := checkBOMKinds(products, lines); err != nil {
			fmt.Fprintf(os.Stderr, "BOM: %v\n", err)
			os.Exit(1)
		}
	}

	outPath := filepath.Join(findModuleRoot(), "catalog_seed.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := writeSQL(out, products, lines); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d productos, %d líneas de BOM\n", outPath, len(products), len(lines))
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
