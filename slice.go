package texstore

// LayerRange returns the storage of layers first through last inclusive. The
// result aliases s.
func (s Storage) LayerRange(first, last int) Storage {
	checkRange("layer", first, last, s.layers)

	stride := s.layerStride()
	out := s
	out.offset += first * stride
	out.layers = last - first + 1
	out.size = out.layers * stride

	return out
}

// Layer returns the storage of a single layer. The result aliases s.
func (s Storage) Layer(layer int) Storage {
	return s.LayerRange(layer, layer)
}

// FaceRange returns the storage of faces first through last inclusive. Faces
// of different layers are not contiguous, so s must hold a single layer; use
// Layer first otherwise. The result aliases s.
func (s Storage) FaceRange(first, last int) Storage {
	if s.layers != 1 {
		panic("texstore: face slicing requires a single layer")
	}
	checkRange("face", first, last, s.faces)

	stride := s.faceStride()
	out := s
	out.offset += first * stride
	out.faces = last - first + 1
	out.size = out.faces * stride

	return out
}

// Face returns the storage of a single face. s must hold a single layer. The
// result aliases s.
func (s Storage) Face(face int) Storage {
	return s.FaceRange(face, face)
}

// LevelRange returns the storage of mip levels first through last inclusive.
// s must hold a single layer with a single face. Level first of s becomes
// level 0 of the result. The result aliases s.
func (s Storage) LevelRange(first, last int) Storage {
	if s.layers != 1 || s.faces != 1 {
		panic("texstore: level slicing requires a single layer and face")
	}
	checkRange("level", first, last, s.levels)

	out := s
	if first > 0 {
		out.offset += s.faceSize(0, first-1)
	}
	out.size = s.faceSize(first, last)
	out.levels = last - first + 1
	out.dims = LevelExtent(s.dims, first)

	return out
}
