// Package postgres implements the store interfaces using a PostgreSQL
// database accessed through database/sql with the pgx driver.
//
// Driver-level failures are translated into the sentinel errors defined in
// the store package: sql.ErrNoRows becomes the entity's not-found error,
// unique constraint violations become duplicate errors, and foreign key
// violations become ErrInvalidEntity.
package postgres
