package agent

import "contentagent/models"

// Conversation is the append-only message history for one session. The
// system prompt always sits at index zero.
type Conversation struct {
	system   string
	messages []models.Message
}

func NewConversation(systemPrompt string) *Conversation {
	c := &Conversation{system: systemPrompt}
	c.Reset()
	return c
}

func (c *Conversation) Append(msg models.Message) {
	c.messages = append(c.messages, msg)
}

// Messages returns the history. Callers must not mutate the returned slice.
func (c *Conversation) Messages() []models.Message {
	return c.messages
}

func (c *Conversation) Len() int { return len(c.messages) }

// Reset drops everything but the system prompt.
func (c *Conversation) Reset() {
	c.messages = []models.Message{{Role: models.RoleSystem, Content: c.system}}
}
