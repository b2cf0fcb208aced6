// Package messages models the history of a tool calling conversation.
//
// A conversation is an ordered list of Message values: the system prompt, user turns,
// assistant replies (which may carry tool calls) and the outputs produced for those
// tool calls. Message is a closed set, the only implementations are System, User,
// Assistant and FunctionCallOutput.
//
// Every message serializes to a JSON object with a "type" discriminator:
//
//	{"type":"system","content":"You are a helpful assistant"}
//	{"type":"user","content":"What's the weather like in Boston today?"}
//	{"type":"assistant","tool_calls":[{"id":"call_1","name":"get_weather","arguments":"{\"location\":\"Boston\"}"}]}
//	{"type":"function_call_output","call_id":"call_1","output":"{\"temperature\":23}"}
//
// Unmarshal restores a Message from that form.
package messages
