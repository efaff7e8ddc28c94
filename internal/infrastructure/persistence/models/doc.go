// Package models contains GORM persistence models that map to database tables.
// They stay separate from domain types so the domain layer is free of ORM tags;
// converters on each model produce the matching domain value.
package models
