// Package magick converts artwork between color spaces with ImageMagick.
//
// When ICC profiles are configured the conversion maps the source gamut onto
// the target gamut (`-profile src -profile dst`); otherwise the image is
// converted to sRGB. Output is always written to a new path so the source
// image stays untouched.
package magick
