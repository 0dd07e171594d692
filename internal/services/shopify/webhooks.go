package shopify

import (
	"context"
	"fmt"
)

const webhookSubscriptionsQuery = `
	query webhookSubscriptions {
		webhookSubscriptions(first: 50) {
			nodes {
				id
				topic
				endpoint {
					__typename
					... on WebhookHttpEndpoint {
						callbackUrl
					}
				}
			}
		}
	}
`

// WebhookSubscriptions lists the shop's registered webhook subscriptions.
func (c *Client) WebhookSubscriptions(ctx context.Context) ([]WebhookSubscription, error) {
	out := struct {
		WebhookSubscriptions struct {
			Nodes []struct {
				ID       string `json:"id"`
				Topic    string `json:"topic"`
				Endpoint struct {
					Typename    string `json:"__typename"`
					CallbackURL string `json:"callbackUrl"`
				} `json:"endpoint"`
			} `json:"nodes"`
		} `json:"webhookSubscriptions"`
	}{}

	if err := c.graphql(ctx, webhookSubscriptionsQuery, nil, &out); err != nil {
		return nil, fmt.Errorf("query webhook subscriptions: %w", err)
	}

	subs := make([]WebhookSubscription, 0, len(out.WebhookSubscriptions.Nodes))
	for _, node := range out.WebhookSubscriptions.Nodes {
		subs = append(subs, WebhookSubscription{
			ID:          node.ID,
			Topic:       node.Topic,
			CallbackURL: node.Endpoint.CallbackURL,
		})
	}

	return subs, nil
}

const webhookSubscriptionCreateMutation = `
	mutation webhookCreate($topic: WebhookSubscriptionTopic!, $callbackUrl: URL!) {
		webhookSubscriptionCreate(topic: $topic, webhookSubscription: { callbackUrl: $callbackUrl, format: JSON }) {
			webhookSubscription {
				id
			}
			userErrors {
				field
				message
			}
		}
	}
`

// CreateWebhookSubscription registers a JSON webhook for the topic and returns
// the new subscription's id.
func (c *Client) CreateWebhookSubscription(ctx context.Context, topic, callbackURL string) (string, error) {
	out := struct {
		WebhookSubscriptionCreate struct {
			WebhookSubscription *struct {
				ID string `json:"id"`
			} `json:"webhookSubscription"`
			UserErrors []UserError `json:"userErrors"`
		} `json:"webhookSubscriptionCreate"`
	}{}

	vars := map[string]interface{}{
		"topic":       topic,
		"callbackUrl": callbackURL,
	}
	if err := c.graphql(ctx, webhookSubscriptionCreateMutation, vars, &out); err != nil {
		return "", fmt.Errorf("mutation: %w", err)
	}
	if err := userErrorsToError("webhookSubscriptionCreate", out.WebhookSubscriptionCreate.UserErrors); err != nil {
		return "", err
	}
	if out.WebhookSubscriptionCreate.WebhookSubscription == nil {
		return "", fmt.Errorf("no webhook id returned")
	}

	return out.WebhookSubscriptionCreate.WebhookSubscription.ID, nil
}

const webhookSubscriptionDeleteMutation = `
	mutation webhookDelete($id: ID!) {
		webhookSubscriptionDelete(id: $id) {
			userErrors {
				field
				message
			}
		}
	}
`

// DeleteWebhookSubscription removes a stale subscription.
func (c *Client) DeleteWebhookSubscription(ctx context.Context, id string) error {
	out := struct {
		WebhookSubscriptionDelete struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"webhookSubscriptionDelete"`
	}{}

	if err := c.graphql(ctx, webhookSubscriptionDeleteMutation, map[string]interface{}{"id": id}, &out); err != nil {
		return fmt.Errorf("mutation: %w", err)
	}

	return userErrorsToError("webhookSubscriptionDelete", out.WebhookSubscriptionDelete.UserErrors)
}
