// Package providers groups the LLM backends that can generate meeting memos.
//
// It is organized into sub-packages:
//   - [github.com/gijiroku/memogen/pkg/providers/provider] holds the Generator
//     contract, the embeddable HTTP client base and the error taxonomy shared
//     by every adapter.
//   - [github.com/gijiroku/memogen/pkg/providers/openai] talks to the OpenAI
//     Chat Completions API.
//   - [github.com/gijiroku/memogen/pkg/providers/anthropic] talks to the
//     Anthropic Messages API.
//   - [github.com/gijiroku/memogen/pkg/providers/gemini] talks to the Google
//     Gemini generateContent API.
//
// This package contains no code of its own. Concrete adapters are selected by
// name through the registry in pkg/memo.
package providers
