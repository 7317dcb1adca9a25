// Package extract pulls object names out of PostgreSQL statements.
//
// Every extractor is a pure function built from case-insensitive regular
// expressions. Identifiers may be unquoted, double-quoted or qualified with a
// schema. Names are returned without their quotes and without the schema
// qualifier; Target and SchemaOf expose the qualifier when it is needed.
//
// None of the extractors fail. When nothing matches they return Unknown (or
// DefaultPrivilege for Privilege, "" for UpdateColumns and SchemaOf).
package extract
