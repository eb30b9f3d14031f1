// Package raster encodes in-memory tiles as PNG streams.
//
// The encoder writes the signature, an IHDR chunk, a single zlib IDAT
// chunk with filter type 0 on every scanline, and IEND. Gray numeric tiles
// pass through a clip pipeline (ClipRange) and a 256-entry colormap:
//
//	s := raster.GrayTile(w, h, samples)
//	b64, err := raster.EncodeBase64(s, raster.WithClip(1), raster.WithColormap("seismic"))
//
// Encode functions are safe for concurrent use.
package raster
