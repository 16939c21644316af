/*
Package texstore computes and owns the byte layout of texture data.

A Storage holds every layer, face and mip level of a texture in one
contiguous buffer, ordered layer by layer, face by face, with levels from
largest to smallest. Block-compressed formats are sized in whole blocks, so a
1x1 level of a 4x4-block format still occupies one block.

Copying a Storage value is cheap and aliases the buffer. Layer, Face and
LevelRange return storages that point into the same allocation at the
computed offset; nothing is copied. Clone and Copy are the explicit deep-copy
paths.

Index arguments are preconditions: an out-of-range layer, face or level
panics, as slice indexing does. Constructors validate the shape and return
errors.
*/
package texstore
