// Package memory manages long-term conversation memory.
//
// The Manager maintains a bounded window of recent messages. When the window
// overflows, the oldest messages are embedded and persisted to the memory
// repository, where the Retriever can recall them later by semantic
// similarity.
//
// The Reembedder regenerates embeddings for all stored records, which is
// needed after switching embedding models.
package memory
