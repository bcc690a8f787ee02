// Package formschema defines the declarative form document edited by the
// builder: a Schema holding metadata, a layout and an ordered list of
// Controls. Controls carry optional ValidationRules and, for select controls,
// an ordered list of SelectOptions. Struct tags mirror the persisted JSON and
// YAML representation so values can be serialised verbatim.
//
// Values in this package are plain data. Use Clone before handing a value to
// code that may retain it; the editor history relies on snapshots never
// sharing slices or pointers.
package formschema
