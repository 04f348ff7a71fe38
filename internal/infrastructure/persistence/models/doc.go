// Package models contains the GORM models of the location store. They map the
// lower-case country, state and city tables and stay free of domain logic;
// the repository converts rows to population.LocationRow.
package models
