// Package pcm describes the raw PCM formats produced by the speech provider.
//
// Only 16-bit little-endian mono audio is produced, at 16 kHz or 24 kHz:
//
//	format, err := pcm.FormatForRate(24000)
//	if err != nil {
//	    return err
//	}
//	d := format.Duration(int64(len(audio)))
package pcm
