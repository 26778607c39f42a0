// Package effects holds the static catalog of beat effects understood by the
// processing backend.
//
// Every effect is a member of a closed enumeration (ID). Its metadata lives in
// the catalog table, while its validation rule and wire serializer are chosen
// by switching on the ID. Parameter values are carried in Values, a
// fixed-shape record bound to a single effect.
//
// The catalog is immutable. Check verifies its invariants once at startup.
package effects
