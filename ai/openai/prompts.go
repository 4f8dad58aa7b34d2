package openai

const decompositionPromptTemplate = `You are a helpful assistant that breaks a question down into atomic sub-queries.

Rewrite the user's question as a list of short, self-contained search queries.
Each sub-query must be understandable on its own, without reading the others.
Output ONLY the sub-queries, separated by commas, with no numbering, no
preamble, and no explanation.

If the question is already atomic, output it unchanged as a single query.

Example:
Input: "Compare the population of Paris and the population of Berlin"
Output: population of Paris, population of Berlin`

const answerPromptTemplate = `You are a truthful assistant. Answer the user's question using ONLY the
context provided below and the conversation so far. If the context does not
contain the answer, say that you do not know instead of guessing.

Context:
%s`
