// Package cache provides a small generic LRU cache.
//
// The painter keeps one font face per (family, weight, size) triple. Faces
// hold glyph caches and must be closed, so the cache reports every entry it
// drops through an eviction callback:
//
//	faces := cache.New[faceKey, font.Face](64, func(_ faceKey, f font.Face) {
//	    _ = f.Close()
//	})
//	face, err := faces.GetOrCreate(key, func() (font.Face, error) {
//	    return opentype.NewFace(f, opts)
//	})
//
// Cache is safe for concurrent use.
package cache
