// Package hexcodec reads and writes the hex interchange format spoken by the
// hardware convolution pipeline.
//
// # Format
//
// ASCII text, one record per line. Each record is exactly two hexadecimal
// digits holding one unsigned 8-bit sample. There are no headers or
// separators. 2D blocks are row-major, and multi-kernel streams concatenate
// whole blocks in kernel order:
//
//	00
//	7F
//	FF
//
// # Encoding
//
// Encode, Append and EncodeBlocks write uppercase records. Every sample is
// range-checked before anything is written: a value outside [0, 255] fails the
// whole call with errs.ErrOutOfRangeSample and produces no output.
//
// # Decoding
//
// Decoding is best effort. Blank lines are skipped. Every other line is parsed
// as a base-16 integer (case-insensitive, optional sign and 0x prefix). Lines
// that fail to parse are counted and skipped, never fatal; the first five are
// kept in DecodeResult.InvalidLines with their 1-based line numbers. Decoded
// values are not range-checked, so DecodeResult.Bytes re-validates them when an
// 8-bit stream is required.
//
//	res, err := hexcodec.ReadFile("output_results.hex")
//	if err != nil {
//	    return err // I/O only
//	}
//	fmt.Println(len(res.Samples), res.InvalidCount)
//
// ReadFile and WriteFile transparently handle .zst, .s2 and .lz4 dumps.
package hexcodec
