// Package embedder provides text embedding clients for vector
// representations.
//
// This package defines the Client interface and implementations for an
// OpenAI-compatible embeddings API and for local in-process models via
// go-embedeverything. A deterministic mock client is included for tests.
//
// # Usage
//
//	client, err := embedder.NewClient(embedder.Config{
//	    Provider: embedder.ProviderEmbedEverything,
//	    Model:    "BAAI/bge-m3",
//	})
//
//	embeddings, err := client.Embed(ctx, []string{"hello world"})
//
// Implementations batch requests internally based on provider limits. No
// client retries a failed call; failures surface to the caller immediately.
package embedder
