package advisor

// Turn is one message in a conversation, tagged by speaker role
// ("user" or "bot"). The advisor endpoint receives the recent turns
// as chat_history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Card is a credit-card record as returned by the recommendation service.
// Details carries issuer-specific fields (fees, rewards, eligibility) with
// no fixed schema.
type Card struct {
	CardName    string                 `json:"cardName"`
	Issuer      string                 `json:"issuer"`
	Network     string                 `json:"network"`
	NetworkTier string                 `json:"networkTier"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// Slug is the identity key of a card. Two cards with the same issuer and
// name are the same card for favorites and feedback purposes.
func (c Card) Slug() string {
	return c.Issuer + "|" + c.CardName
}

// Reply is the structured payload of a recommendation response. All fields
// are optional; an absent field means there is nothing to render.
type Reply struct {
	ResponseText string   `json:"responseText,omitempty"`
	Cards        []Card   `json:"cards,omitempty"`
	Suggestions  []string `json:"suggestions,omitempty"`
}

type chatRequest struct {
	ChatHistory []Turn                 `json:"chat_history"`
	Message     string                 `json:"message"`
	IsCards     bool                   `json:"isCards"`
	Preferences map[string]interface{} `json:"preferences"`
	OwnCardData map[string]interface{} `json:"ownCardData"`
}

type chatResponse struct {
	Reply *Reply `json:"reply"`
}
