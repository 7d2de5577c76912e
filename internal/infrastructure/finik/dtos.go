package finik

import "encoding/json"

// createItemMutation is Finik's GraphQL operation for creating a payable
// item. requestId doubles as the provider-side idempotency key, so a retried
// initiation with the same id is deduplicated upstream.
const createItemMutation = `mutation CreateItem($input: CreateItemInput!) {
  createItem(input: $input) {
    id
    requestId
    status
  }
}`

type graphQLRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

type requiredField struct {
	FieldID string `json:"fieldId"`
	Value   string `json:"value"`
}

type createItemInput struct {
	Account              accountRef      `json:"account"`
	CallbackURL          string          `json:"callbackUrl"`
	RequiredFields       []requiredField `json:"requiredFields"`
	FixedAmount          int64           `json:"fixedAmount"`
	NameEN               string          `json:"name_en"`
	RequestID            string          `json:"requestId"`
	Status               string          `json:"status"`
	MaxAvailableQuantity int             `json:"maxAvailableQuantity"`
}

type accountRef struct {
	ID string `json:"id"`
}

// createItemEnvelope captures the response loosely: Finik's shape has not
// been stable, so only the identifier candidates are typed.
type createItemEnvelope struct {
	Data struct {
		CreateItem json.RawMessage `json:"createItem"`
	} `json:"data"`
}

type itemIdentifiers struct {
	ProviderPaymentID string `json:"provider_payment_id"`
	PaymentID         string `json:"payment_id"`
	ID                string `json:"id"`
	TransactionID     string `json:"transaction_id"`
}

// pick returns the first non-empty identifier, mirroring the fallback order
// the provider has used across releases.
func (i itemIdentifiers) pick() string {
	for _, candidate := range []string{i.ProviderPaymentID, i.PaymentID, i.ID, i.TransactionID} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}
