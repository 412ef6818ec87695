// Package routes implements route classification and test-plan coverage
// verification over the target application's routing table.
//
// Classification partitions route patterns into the three plan buckets
// (include, exclude, complex) with static rules; verification proves a
// declared plan covers every live route and reports the gaps. Both are pure
// functions over their inputs so they can be exercised without a running
// server.
package routes
