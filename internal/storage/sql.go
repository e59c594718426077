package storage

import (
	_ "embed"
)

const (
	upsertColorMapSQL = `
INSERT INTO colormaps (
                       name,
                       stop_count,
                       data)
VALUES (?, ?, ?)
ON CONFLICT (name) DO UPDATE SET
    stop_count = excluded.stop_count,
    data       = excluded.data,
    updated_at = CURRENT_TIMESTAMP`

	selectColorMapSQL = `
SELECT 
    data 
FROM colormaps 
WHERE 
    name = ?`

	selectColorMapNamesSQL = `
SELECT 
    name 
FROM colormaps 
ORDER BY name`

	deleteColorMapSQL = `
DELETE FROM colormaps 
WHERE 
    name = ?`
)

//go:embed schema.sql
var initSchemaSQL string
