// Package ipibuf encodes and decodes IPI message buffers.
//
// Every IPI channel pair owns a 64-byte buffer in shared memory, split into a
// 32-byte request region and a 32-byte response region. Messages are
// sequences of 32-bit little-endian words, densely packed from the start of
// a region. The layout is a fixed contract with the peer; the codec never
// truncates and never writes past a region. Violations are programming
// errors and panic with an error wrapping [ErrProtocolViolation].
package ipibuf
