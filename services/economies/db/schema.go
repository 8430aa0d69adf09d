package db

import _ "embed"

//go:embed schema.sql
var Schema string

const TableName = "Countries_by_GDP"
