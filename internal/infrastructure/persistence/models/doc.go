// Package models contains the GORM persistence models. They are kept apart
// from domain entities so the domain layer stays free of ORM tags; each
// model converts to and from its aggregate with ToDomain / FromDomain.
package models
