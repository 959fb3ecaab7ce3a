// Package models contains GORM persistence models that map to database tables.
// Domain aggregates stay free of ORM tags; each model converts to and from its
// aggregate with ToDomain and FromDomain.
//
// Document lines of sales and purchases live in child tables. Lines of
// quotes, deliveries and returns, and the supplier catalogue, are stored as
// JSON columns because they are only ever read with their parent.
package models
