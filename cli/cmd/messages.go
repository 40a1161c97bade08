package cmd

const (
	messageGenerated = "generate.messages.success"
)

// messages translates message keys into English texts.
type messages map[string]string

func newMessages() messages {
	return messages{
		messageGenerated: "Generation completed successfully.",
	}
}

// Trans returns the text of the message key. Unknown keys are returned as is.
func (m messages) Trans(key string) string {
	if text, found := m[key]; found {
		return text
	}
	return key
}
