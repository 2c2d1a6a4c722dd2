// Package openai implements the OpenAI-compatible provider adapter.
//
// The adapter speaks the chat completions wire format against any endpoint
// that implements it, OpenAI itself being the default. It inherits the full
// resilience pipeline (circuit breaker around retry around one HTTP attempt)
// from adapters.HTTPAdapter.
//
// # Basic Usage
//
//	cfg := adapters.Config{
//	    Name:   "openai/gpt-4o",
//	    Type:   adapters.TypeOpenAI,
//	    Model:  "gpt-4o",
//	    APIKey: os.Getenv("OPENAI_API_KEY"),
//	}
//
//	adapter, err := openai.New(cfg, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer adapter.Close()
//
//	resp, err := adapter.GenerateResponse(ctx, &adapters.GenerateRequest{
//	    SystemPrompt: "You are terse.",
//	    Messages: []adapters.Message{
//	        {ID: "m1", AuthorType: adapters.AuthorUser, Content: "Hello!"},
//	    },
//	})
//
// # Request Mapping
//
//   - The system prompt becomes the leading "system" role message.
//   - Conversation messages map author types to wire roles (user, assistant).
//   - MaxTokens and Temperature fall back to the adapter config when the
//     request leaves them zero.
//
// # Response Mapping
//
// The first choice's content becomes AIResponse.Content. Token counts come
// from the usage block when the endpoint reports one; otherwise the adapter
// estimates both sides heuristically. ReplyTo ids echo back unchanged.
//
// # Compatible Endpoints
//
// Any server implementing POST /v1/chat/completions works with a custom
// BaseURL: Azure OpenAI deployments, vLLM, Ollama, LM Studio, and most
// gateway products. Endpoints that omit the usage block simply fall back
// to estimated token counts.
package openai
