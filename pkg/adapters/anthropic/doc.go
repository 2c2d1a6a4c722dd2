// Package anthropic implements the Anthropic messages API adapter.
//
// It inherits the resilience pipeline from adapters.HTTPAdapter and maps
// the generate contract onto Anthropic's wire format, which differs from
// the chat completions baseline in several ways:
//
//   - the system prompt is a top-level "system" field, not a message;
//   - max_tokens is mandatory (the adapter defaults it to 4096);
//   - turns must strictly alternate user/assistant, so consecutive
//     same-author messages coalesce into one turn and a synthetic user
//     turn leads when the context opens with the assistant or is empty;
//   - authentication uses x-api-key plus an anthropic-version header;
//   - response text arrives as typed content blocks, concatenated here;
//   - stop reasons normalize (end_turn -> stop, max_tokens -> length).
//
// # Basic Usage
//
//	cfg := adapters.Config{
//	    Name:   "anthropic/claude-3.5-sonnet",
//	    Type:   adapters.TypeAnthropic,
//	    Model:  "claude-3-5-sonnet-20241022",
//	    APIKey: os.Getenv("ANTHROPIC_API_KEY"),
//	}
//
//	adapter, err := anthropic.New(cfg, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer adapter.Close()
package anthropic
