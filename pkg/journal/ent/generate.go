// Package ent holds the generated journal client. Run go generate after
// changing the schema to refresh it.
package ent

//go:generate go run -mod=mod entgo.io/ent/cmd/ent generate ./schema
