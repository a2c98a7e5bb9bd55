// Package cmp implements the CMP compression engine: four interchangeable
// sample-block encodings (RED, PRED, MBE, VDS) driven by a shared
// detrend/scale/derivative/encode/encrypt/CRC pipeline over the 56-byte
// block layout defined in package layout.
//
// The design mirrors mebo's encoding/compress split: a small Encoding
// interface (this package's equivalent of mebo/compress.Codec) picks the
// concrete algorithm, while ProcessingStruct (this package's equivalent of
// mebo's blob builders) owns the stages common to all four.
package cmp
