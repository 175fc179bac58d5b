/*
Package rewrite restructures raw advising conversations into clean Q&A
pairs with an LLM.

Conversations come from an Excel export. Each one is sent to the model
with a structured-output schema; the response is a JSON array of labeled
Q&A pairs (topic, question type, reasoning level). A failing conversation
is logged and skipped, never fatal to the run, and progress is saved at a
fixed checkpoint interval so long runs survive interruption.
*/
package rewrite
