// Package db holds the embedded SQL migrations for the content database.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
