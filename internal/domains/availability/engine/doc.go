// Package engine computes bookable slots and table recommendations from a
// snapshot of tables and bookings. It performs no I/O; callers load the
// snapshot and pass the clock explicitly.
package engine
