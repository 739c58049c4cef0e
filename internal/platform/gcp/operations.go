package gcp

import (
	"context"
	"time"

	"google.golang.org/api/compute/v1"

	"github.com/imamik/genesis/internal/util/retry"
)

const statusDone = "DONE"

// maxPollDelay caps the backoff between failed operation polls. Each poll is
// a server-side wait of up to two minutes, so longer gaps only add latency.
const maxPollDelay = 15 * time.Second

// operation is a pending Compute Engine operation. Zonal operations carry
// their zone; global ones leave it empty.
type operation struct {
	client   *Client
	project  string
	zone     string
	verb     string
	resource string
	op       *compute.Operation
}

func (c *Client) newOperation(project, zone, verb, resource string, op *compute.Operation) *operation {
	return &operation{client: c, project: project, zone: zone, verb: verb, resource: resource, op: op}
}

// Wait blocks until the operation is DONE and reports its error, if any.
// Transient API failures while polling are retried with backoff.
func (o *operation) Wait(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, o.client.timeouts.OperationWait)
	defer cancel()

	op := o.op
	for op.Status != statusDone {
		var next *compute.Operation
		err := retry.Backoff(ctx, func(int) error {
			var pollErr error
			next, pollErr = o.poll(ctx, op.Name)
			if pollErr != nil && !isTransient(pollErr) {
				return retry.Fatal(pollErr)
			}
			return pollErr
		},
			retry.WithMaxRetries(o.client.timeouts.RetryMaxAttempts),
			retry.WithInitialDelay(o.client.timeouts.RetryInitialDelay),
			retry.WithMaxDelay(maxPollDelay),
		)
		if err != nil {
			return translateError("wait for "+o.verb, o.resource, retry.Cause(err))
		}
		op = next
	}

	return operationError(o.verb, o.resource, op)
}

// poll uses the operations Wait method, which returns when the operation
// is DONE or after a server-side deadline, whichever comes first.
func (o *operation) poll(ctx context.Context, name string) (*compute.Operation, error) {
	if o.zone != "" {
		return o.client.service.ZoneOperations.Wait(o.project, o.zone, name).Context(ctx).Do()
	}
	return o.client.service.GlobalOperations.Wait(o.project, name).Context(ctx).Do()
}
