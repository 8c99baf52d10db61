// Package api defines wire-format types, converters, and services for the
// daemon HTTP surface. DTOs use camelCase JSON tags; internal enums are
// exposed as lowercase strings; timestamps use RFC3339. Failure responses
// carry only the classified kind and a controlled message.
package api
