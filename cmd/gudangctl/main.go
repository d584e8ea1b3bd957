// gudangctl tareas de operación sobre la base PostgreSQL: migraciones y datos iniciales.
//
// Uso:
//
//	gudangctl migrate
//	gudangctl seed superadmin --username root --email root@gudang.local --password '...'
//	gudangctl seed demo
//	gudangctl seed import productos.csv --latin1
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
