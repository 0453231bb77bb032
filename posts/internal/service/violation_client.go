package services

import (
	"context"

	"github.com/hangoctan1012/FaceCookTan/pkg/messaging"
)

// ViolationChecker asks the stats service whether a user is currently
// banned for an action kind. The write paths call this before accepting a
// post or comment, blocking their own response on the round trip.
type ViolationChecker struct {
	rpc *messaging.RPCClient
}

func NewViolationChecker(rpc *messaging.RPCClient) *ViolationChecker {
	return &ViolationChecker{rpc: rpc}
}

// Check returns the ban state for (userID, kind), kind being "post",
// "comment" or "user". Expired true means the action is allowed.
func (c *ViolationChecker) Check(ctx context.Context, userID, kind string) (*messaging.ViolationCheckResult, error) {
	req := messaging.ViolationCheckRequest{
		UserID: userID,
		Check:  "violation_" + kind,
	}

	var result messaging.ViolationCheckResult
	if err := c.rpc.Call(ctx, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
