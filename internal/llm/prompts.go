package llm

import (
	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/schema"

	"github.com/Shamlan321/OdooSense/internal/conversation"
	"github.com/Shamlan321/OdooSense/internal/odoo"
)

const assistantPersona = `You are a helpful AI assistant that can handle both general conversation and Odoo ERP data queries.`

const conversationalRules = `Rules for conversational responses:
1. Be friendly and professional
2. Keep responses concise
3. Stay on topic
4. Be helpful
5. If the user asks about capabilities, mention you can help with both general questions and Odoo ERP data`

const dataRules = `Rules for data responses:
1. If there's an error, show the complete error message and details for debugging
2. For successful queries, only state what the data shows
3. Use simple, direct language
4. No suggestions or follow-ups
5. For numbers, be exact
6. If no records found, suggest checking the Odoo web interface`

func conversationalMessages(query string, history []conversation.Turn) []*schema.Message {
	systemPrompt := assistantPersona + `
This appears to be a conversational query.

` + conversationalRules

	messages := []*schema.Message{schema.SystemMessage(systemPrompt)}
	messages = append(messages, historyMessages(history)...)
	return append(messages, schema.UserMessage(query))
}

func dataMessages(query, status string, ds *odoo.Dataset, history []conversation.Turn) []*schema.Message {
	systemPrompt := assistantPersona + `
This appears to be a data query.

Data Status: ` + status + `
Data: ` + datasetJSON(ds) + `

` + dataRules

	messages := []*schema.Message{schema.SystemMessage(systemPrompt)}
	messages = append(messages, historyMessages(history)...)
	return append(messages, schema.UserMessage(query))
}

// historyMessages replays past turns as alternating user and assistant
// messages so the model sees the same roles it produced.
func historyMessages(history []conversation.Turn) []*schema.Message {
	messages := make([]*schema.Message, 0, 2*len(history))
	for _, turn := range history {
		if turn.Query != "" {
			messages = append(messages, schema.UserMessage(turn.Query))
		}
		if turn.Response != "" {
			messages = append(messages, schema.AssistantMessage(turn.Response, nil))
		}
	}
	return messages
}

type promptSection struct {
	Section string        `json:"section"`
	Records []odoo.Record `json:"records"`
}

func datasetJSON(ds *odoo.Dataset) string {
	if ds == nil || ds.Total() == 0 {
		return "None"
	}
	sections := make([]promptSection, 0, len(ds.Sections))
	for _, s := range ds.Sections {
		if len(s.Records) == 0 {
			continue
		}
		sections = append(sections, promptSection{Section: s.Name, Records: s.Records})
	}
	data, err := sonic.MarshalIndent(sections, "", "  ")
	if err != nil {
		return "None"
	}
	return string(data)
}
