// Package normalizer converts raw parsed policy documents into canonical
// PolicyNode trees.
//
// The front end (YAML or any other format) hands the normalizer an
// already-deserialized nested mapping plus declared metadata. The normalizer
// canonicalizes every key path, strips merge-strategy annotations from raw
// keys onto the nodes they annotate, rejects sibling keys that collide after
// canonicalization, and stamps every node with its source id and priority so
// the merged result stays auditable.
package normalizer
