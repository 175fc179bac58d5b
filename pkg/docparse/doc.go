/*
Package docparse converts Word documents into the JSON corpus files the
reference pipeline consumes.

Two output layouts are produced from the same element stream. The flat
layout splits paragraph text into fixed-size chunks and gives every table
its own chunk. The legal layout recovers the chapter/article/clause/point
hierarchy of Vietnamese legal documents from heading patterns. Tables are
rendered as LaTeX tabular blocks in both.
*/
package docparse
