// Package wav wraps raw PCM audio in a canonical 44-byte RIFF/WAVE header.
//
// Encoding is a pure function of the payload and the header parameters;
// the payload is copied verbatim, whatever its length:
//
//	h := wav.HeaderFor(pcm.L16Mono24K)
//	file := wav.Encode(audio, h)
//
// Payload re-extracts the data region of a container produced by Encode,
// and Probe validates an arbitrary WAVE file with an independent decoder.
package wav
