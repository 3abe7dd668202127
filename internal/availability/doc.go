// Package availability decides whether a stay can be placed on a room.
//
// Every function works on a snapshot supplied by the caller and keeps no
// state, so the package is safe to call from concurrent handlers. Stays are
// half-open day intervals [check-in, check-out): a guest leaving on the 15th
// does not block a guest arriving on the 15th.
//
// The checks here are a pre-flight filter. Writers still have to re-validate
// inside the transaction that stores the booking.
package availability
