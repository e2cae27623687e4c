// Package fits reads capture frames written to disk by imaging software
// such as N.I.N.A. or the ASCOM simulators.
//
// A frame is the primary HDU of a FITS file: the header cards and a 2-D
// image. Read decodes both, applying the BZERO/BSCALE linear scaling that
// 16-bit captures use to store unsigned pixel values in signed integers.
// Latest locates the most recent frame under a watch directory so a file
// monitor can publish whatever the capture rig saved last.
//
// StateFields maps the header cards of a frame onto the flat state
// attributes published for a file-backed camera. Cards a capture program
// did not write fall back to "n/a" (strings) or zero (numbers) rather than
// failing the whole frame; a frame with a thin header still publishes.
//
// # Usage
//
//	path, err := fits.Latest(dir)
//	if err != nil {
//		// fits.ErrNoFiles when the directory holds no frames yet
//	}
//	frame, err := fits.Read(path)
//	if err != nil {
//		// unreadable or truncated file
//	}
//	state := fits.StateFields(frame.Header)
package fits
