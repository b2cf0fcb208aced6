package conversation

import (
	"fmt"
	"slices"
	"sync"

	"github.com/casualjim/toolloop/messages"
	"github.com/casualjim/toolloop/provider"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// State is the history of one conversation plus the request options it was started
// with. Messages are only ever appended.
type State struct {
	mu       sync.RWMutex
	id       uuid.UUID
	options  provider.Options
	messages []messages.Message
}

// NewState starts a conversation with the given options and initial history.
func NewState(options provider.Options, history ...messages.Message) *State {
	return &State{
		id:       uuid.Must(uuid.NewV7()),
		options:  options,
		messages: slices.Clone(history),
	}
}

// ID identifies the conversation in logs.
func (s *State) ID() uuid.UUID {
	return s.id
}

// Options returns the request options of the conversation.
func (s *State) Options() provider.Options {
	return s.options
}

// Append adds messages to the end of the history.
func (s *State) Append(msgs ...messages.Message) {
	s.mu.Lock()
	s.messages = append(s.messages, msgs...)
	s.mu.Unlock()
}

// Messages returns a copy of the history.
func (s *State) Messages() []messages.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.messages)
}

// Len returns the number of messages in the history.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Last returns the most recent message.
func (s *State) Last() (messages.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.messages) == 0 {
		return nil, false
	}
	return s.messages[len(s.messages)-1], true
}

type stateJSON struct {
	ID       uuid.UUID          `json:"id"`
	Options  provider.Options   `json:"options"`
	Messages []messages.Message `json:"messages"`
}

// MarshalJSON writes the conversation as {"id", "options", "messages"}.
func (s *State) MarshalJSON() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.messages
	if msgs == nil {
		msgs = []messages.Message{}
	}
	return json.Marshal(stateJSON{ID: s.id, Options: s.options, Messages: msgs})
}

// UnmarshalJSON restores a conversation written by MarshalJSON.
func (s *State) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid json: %s", data)
	}
	doc := gjson.ParseBytes(data)

	id, err := uuid.Parse(doc.Get("id").String())
	if err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}

	var options provider.Options
	if raw := doc.Get("options"); raw.Exists() {
		if err := json.Unmarshal([]byte(raw.Raw), &options); err != nil {
			return fmt.Errorf("invalid options: %w", err)
		}
	}

	var history []messages.Message
	if raw := doc.Get("messages"); raw.Exists() {
		history, err = messages.UnmarshalList([]byte(raw.Raw))
		if err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
	s.options = options
	s.messages = history
	return nil
}
