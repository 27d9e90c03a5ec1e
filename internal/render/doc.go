// Package render turns body sets into raster frames.
//
// A [Renderer] draws every body as a filled disc and its trail as a
// polyline onto a canvas AliasScale times larger than the output, then
// downsamples it with an area-averaging kernel. Positions are mapped to
// pixels by a [Projector].
package render
