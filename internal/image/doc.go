// Package image renders raw camera sample arrays into the PNG frames
// published on the screen topic.
//
// Astronomical exposures are nearly black when displayed linearly: the
// interesting signal lives in a tiny slice of the dynamic range just
// above the sky background. The pipeline therefore runs every frame
// through four stages:
//
//  1. Normalize: divide raw counts by 2^bits into [0, 1]
//  2. Stretch: a screen transfer function (AutoStretch) that places the
//     background at a target level, or a named curve (CurveStretch)
//     over a percentile, fixed or min/max interval
//  3. Resize: downscale to fit the publish bounds, aspect preserved
//  4. EncodePNG: 8-bit grayscale output
//
// AutoStretch is the default and needs no tuning: the midtones balance is
// derived per frame from the median and the normalized median absolute
// deviation, so a 30 s luminance sub and a 300 s narrowband sub both come
// out with a comparable background. CurveStretch is the manual
// alternative for fixed, reproducible renderings.
//
// All stages are pure functions over [][]float64 sample rows; Pipeline
// binds them to a configuration and may be shared by every camera worker.
package image
