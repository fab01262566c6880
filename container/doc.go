// Package container provides ordered map-like and collection-like types the
// mapper engine can read from and fill. Entries are visited in insertion
// order, unlike Go maps which the engine visits in sorted key order.
package container
