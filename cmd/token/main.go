// token emite un JWT de operador firmado con JWT_SECRET, para integraciones y pruebas manuales.
//
// Uso: go run ./cmd/token <user_id> <admin|bodeguero|consulta>
package main

import (
	"fmt"
	"os"

	"github.com/jhoicas/Inventario-mrp/pkg/config"
	pkgjwt "github.com/jhoicas/Inventario-mrp/pkg/jwt"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "uso: token <user_id> <admin|bodeguero|consulta>")
		os.Exit(2)
	}
	userID, role := os.Args[1], os.Args[2]
	switch role {
	case pkgjwt.RoleAdmin, pkgjwt.RoleBodeguero, pkgjwt.RoleConsulta:
	default:
		fmt.Fprintf(os.Stderr, "rol desconocido %q\n", role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	tok, err := pkgjwt.Generate(cfg.JWT.Secret, userID, role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
