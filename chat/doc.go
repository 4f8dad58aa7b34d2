// Package chat orchestrates conversational turns over the retrieval stack.
//
// A Pipeline takes a question from a Session, ages overflowing history into
// long-term memory, decomposes the question into sub-queries, fuses the
// retrieval results, and generates the final answer. The question and answer
// are appended to the session so follow-up questions see the full exchange.
package chat
