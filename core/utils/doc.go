// Package utils provides common utility functions for the slot-aggregator application.
// It mostly deals with coercing loosely typed registry values (decoded JSON) into
// the concrete types adapters need.
package utils
