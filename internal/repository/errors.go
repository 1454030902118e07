// Package repository contains data access logic separated from HTTP handlers
// and services.  Two backends satisfy the same store contracts: MySQL for
// deployments and an in-process memory store for tests and local demos.
package repository

import "errors"

// ErrActivityNotFound is returned when an activity cannot be found, either
// on lookup or because a booking references an activity id that does not
// exist (MySQL foreign key violation).
var ErrActivityNotFound = errors.New("activity not found")

// ErrBookingNotFound is returned when a booking id has no row.
var ErrBookingNotFound = errors.New("booking not found")
