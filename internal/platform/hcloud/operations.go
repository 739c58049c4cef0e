package hcloud

import (
	"context"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
)

// actionOperation waits for the actions started by a create call.
type actionOperation struct {
	client   *Client
	verb     string
	resource string
	actions  []*hcloud.Action
}

func (c *Client) newOperation(verb, resource string, actions ...*hcloud.Action) *actionOperation {
	pending := make([]*hcloud.Action, 0, len(actions))
	for _, a := range actions {
		if a != nil {
			pending = append(pending, a)
		}
	}
	return &actionOperation{client: c, verb: verb, resource: resource, actions: pending}
}

// Wait blocks until every action has finished.
func (o *actionOperation) Wait(ctx context.Context) error {
	if len(o.actions) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, o.client.timeouts.OperationWait)
	defer cancel()

	if err := o.client.client.Action.WaitFor(ctx, o.actions...); err != nil {
		return translateError("wait for "+o.verb, o.resource, err)
	}
	return nil
}
