/*
Package edds moves Arma/DayZ EDDS (Enfusion DDS) containers in and out of
texstore storages.

EDDS stores a DDS header followed by a block table and block bodies per mipmap
level (smallest to largest). Blocks may be uncompressed (COPY) or LZ4
compressed using Enfusion chunk-stream format with a rolling 64KB dictionary.

Decode allocates one single-layer storage for the whole mip chain and inflates
every block straight into its level; Encode writes each level of a storage
without an intermediate copy. FromImage and DecodeLevel bridge storages and
image.Image through the BCn codec.
*/
package edds
