// Package db provides embedded database schema and seed files.
package db

import _ "embed"

// Schema contains the DDL statements for all application tables.
//
//go:embed migrations/001_schema.sql
var Schema string

// SeedDataset is a small demo dataset for local development.
//
//go:embed seed/dataset.json
var SeedDataset []byte
